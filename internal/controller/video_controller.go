package controller

import (
	"fmt"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/serverutils"
	"video-saas-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVideoController interface {
	RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler)
	Upload(ctx *fiber.Ctx) error
	SetConvertedId(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	MethodNotAllowed(ctx *fiber.Ctx) error
}

type videoController struct {
	videoService service.VideoService
}

func NewVideoController(videoService service.VideoService) IVideoController {
	return &videoController{
		videoService: videoService,
	}
}

func (c *videoController) RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler) {
	h := r.Group("/video")
	h.Post("/upload", chain(middlewares, c.Upload)...)
	h.Put("/upload", chain(middlewares, c.SetConvertedId)...)
	// Get also registers HEAD; claim it first so HEAD stays outside the allowed set.
	h.Head("/upload", c.MethodNotAllowed)
	h.Get("/upload", chain(middlewares, c.List)...)
	h.All("/upload", c.MethodNotAllowed)
}

func chain(middlewares []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(middlewares)+1)
	handlers = append(handlers, middlewares...)
	return append(handlers, handler)
}

// Upload serves the three POST shapes: create, fetch by id and set converted source.
func (c *videoController) Upload(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UploadVideoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", entity.ErrInvalidRequest)
	}
	variant, err := req.Variant()
	if err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(variant); err != nil {
		return err
	}

	switch v := variant.(type) {
	case dto.CreateVideoRequest:
		res, err := c.videoService.CreateVideo(ctx.UserContext(), userId, v.Link)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Video created", res))

	case dto.FetchVideoRequest:
		res, err := c.videoService.GetVideo(ctx.UserContext(), userId, v.VideoId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("get video object", res))

	case dto.UpdateVideoSourceRequest:
		res, err := c.videoService.SetConvertedSource(ctx.UserContext(), userId, v.VideoId, v.SrcUrl, v.Title)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("src field and title field updated", res))
	}

	return fmt.Errorf("%w: unsupported request", entity.ErrInvalidRequest)
}

func (c *videoController) SetConvertedId(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SetConvertedIdRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", entity.ErrInvalidRequest)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	videoId, err := req.ID()
	if err != nil {
		return err
	}

	res, err := c.videoService.SetConvertedId(ctx.UserContext(), userId, videoId, req.ConVideoId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Video updated", res))
}

func (c *videoController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.videoService.ListVideos(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("get all videos", res))
}

func (c *videoController) MethodNotAllowed(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderAllow, "GET, POST, PUT")
	return ctx.Status(fiber.StatusMethodNotAllowed).
		JSON(serverutils.ErrorResponse(fiber.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", ctx.Method())))
}
