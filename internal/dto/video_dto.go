package dto

import (
	"fmt"
	"strings"
	"time"

	"video-saas-be/internal/entity"

	"github.com/google/uuid"
)

// UploadVideoRequest is the raw POST /api/video/upload body. Exactly one of the
// three shapes may be present, see Variant.
type UploadVideoRequest struct {
	OrigionalVideoLink  *string `json:"origionalVideoLink"`
	FetchVideoById      *string `json:"fetchVideoById"`
	UpdateConVidSrcById *string `json:"updateConVidSrcById"`
	SrcUrl              *string `json:"src_url"`
	Title               *string `json:"title"`
}

// VideoPostVariant is one of CreateVideoRequest, FetchVideoRequest or UpdateVideoSourceRequest.
type VideoPostVariant interface {
	videoPost()
}

type CreateVideoRequest struct {
	Link string `validate:"required,url"`
}

type FetchVideoRequest struct {
	VideoId uuid.UUID `validate:"required"`
}

type UpdateVideoSourceRequest struct {
	VideoId uuid.UUID `validate:"required"`
	SrcUrl  string    `validate:"required"`
	Title   string
}

func (CreateVideoRequest) videoPost()       {}
func (FetchVideoRequest) videoPost()        {}
func (UpdateVideoSourceRequest) videoPost() {}

// Variant resolves the tagged request shape. Bodies that carry none or more than
// one shape are rejected.
func (r *UploadVideoRequest) Variant() (VideoPostVariant, error) {
	var found []VideoPostVariant

	if present(r.SrcUrl) {
		if !present(r.UpdateConVidSrcById) {
			return nil, fmt.Errorf("%w: updateConVidSrcById is required with src_url", entity.ErrInvalidRequest)
		}
		id, err := uuid.Parse(strings.TrimSpace(*r.UpdateConVidSrcById))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid updateConVidSrcById", entity.ErrInvalidRequest)
		}
		req := UpdateVideoSourceRequest{VideoId: id, SrcUrl: *r.SrcUrl}
		if r.Title != nil {
			req.Title = *r.Title
		}
		found = append(found, req)
	}
	if present(r.FetchVideoById) {
		id, err := uuid.Parse(strings.TrimSpace(*r.FetchVideoById))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid fetchVideoById", entity.ErrInvalidRequest)
		}
		found = append(found, FetchVideoRequest{VideoId: id})
	}
	if present(r.OrigionalVideoLink) {
		found = append(found, CreateVideoRequest{Link: strings.TrimSpace(*r.OrigionalVideoLink)})
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: one of origionalVideoLink, fetchVideoById or src_url is required", entity.ErrInvalidRequest)
	case 1:
		return found[0], nil
	}
	return nil, fmt.Errorf("%w: request mixes several operations", entity.ErrInvalidRequest)
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// SetConvertedIdRequest is the PUT /api/video/upload body.
type SetConvertedIdRequest struct {
	VideoId    string `json:"videoId" validate:"required"`
	ConVideoId string `json:"conVideoId" validate:"required,max=255"`
}

func (r SetConvertedIdRequest) ID() (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.VideoId))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid videoId", entity.ErrInvalidRequest)
	}
	return id, nil
}

type VideoResponse struct {
	Id            uuid.UUID `json:"id"`
	UserId        uuid.UUID `json:"userId"`
	Link          string    `json:"link"`
	ConVideoSrc   *string   `json:"conVideoSrc"`
	ConVideoTitle *string   `json:"conVideoTitle"`
	ConVideoId    *string   `json:"conVideoId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewVideoResponse(v *entity.Video) *VideoResponse {
	if v == nil {
		return nil
	}
	return &VideoResponse{
		Id:            v.Id,
		UserId:        v.UserId,
		Link:          v.Link,
		ConVideoSrc:   v.ConVideoSrc,
		ConVideoTitle: v.ConVideoTitle,
		ConVideoId:    v.ConVideoId,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func NewVideoResponses(videos []*entity.Video) []*VideoResponse {
	result := make([]*VideoResponse, 0, len(videos))
	for _, v := range videos {
		result = append(result, NewVideoResponse(v))
	}
	return result
}
