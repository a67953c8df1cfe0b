package controller

import (
	"fmt"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/serverutils"
	"video-saas-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler)
	Current(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Entitlement(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	subscriptionService service.SubscriptionService
	meteringService     service.MeteringService
}

func NewSubscriptionController(subscriptionService service.SubscriptionService, meteringService service.MeteringService) ISubscriptionController {
	return &subscriptionController{
		subscriptionService: subscriptionService,
		meteringService:     meteringService,
	}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler) {
	h := r.Group("/subscription", middlewares...)
	h.Get("/current", c.Current)
	h.Post("/cancel", c.Cancel)
	h.Get("/entitlement", c.Entitlement)
}

func (c *subscriptionController) Current(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.GetCurrentSubscription(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("get current subscription", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.CancelSubscription(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription will be canceled at the end of the billing period", res))
}

func (c *subscriptionController) Entitlement(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var query dto.EntitlementQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fmt.Errorf("%w: invalid query", entity.ErrInvalidRequest)
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	decision, err := c.meteringService.CheckEntitlement(ctx.UserContext(), userId, entity.MeteredAction(query.Action))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("entitlement checked", dto.NewEntitlementResponse(decision)))
}
