package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/repository/specification"
	"video-saas-be/internal/repository/unitofwork"
	"video-saas-be/pkg/events"

	"github.com/google/uuid"
)

const videoModule = "VIDEO"

type VideoService interface {
	CreateVideo(ctx context.Context, userId uuid.UUID, link string) (*dto.VideoResponse, error)
	GetVideo(ctx context.Context, userId uuid.UUID, videoId uuid.UUID) (*dto.VideoResponse, error)
	SetConvertedSource(ctx context.Context, userId uuid.UUID, videoId uuid.UUID, src, title string) (*dto.VideoResponse, error)
	// SetConvertedId records the processing job id and charges one upload.
	// Charge failures are queued for retry and never fail the call.
	SetConvertedId(ctx context.Context, userId uuid.UUID, videoId uuid.UUID, conVideoId string) (*dto.VideoResponse, error)
	ListVideos(ctx context.Context, userId uuid.UUID) ([]*dto.VideoResponse, error)
}

// ChargeEnqueuer accepts charges the request path could not settle.
type ChargeEnqueuer interface {
	Enqueue(ctx context.Context, req entity.ConsumptionRequest) error
}

type videoService struct {
	uowFactory unitofwork.RepositoryFactory
	metering   MeteringService
	retries    ChargeEnqueuer
	publisher  events.Publisher
	logger     logger.ILogger
	store      StoreCallOptions
}

func NewVideoService(
	uowFactory unitofwork.RepositoryFactory,
	metering MeteringService,
	retries ChargeEnqueuer,
	publisher events.Publisher,
	logger logger.ILogger,
	store StoreCallOptions,
) VideoService {
	return &videoService{
		uowFactory: uowFactory,
		metering:   metering,
		retries:    retries,
		publisher:  publisher,
		logger:     logger,
		store:      store.withDefaults(),
	}
}

func (s *videoService) CreateVideo(ctx context.Context, userId uuid.UUID, link string) (*dto.VideoResponse, error) {
	if err := s.metering.RequireEntitlement(ctx, userId, entity.ActionUpload); err != nil {
		return nil, err
	}

	now := time.Now()
	video := &entity.Video{
		Id:        uuid.New(),
		UserId:    userId,
		Link:      link,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := writeOnce(ctx, s.store, "create_video", func(ctx context.Context) error {
		return s.uowFactory.NewUnitOfWork(ctx).VideoRepository().Create(ctx, video)
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishVideoCreated(ctx, video.Id, userId, video.Link)
	}
	return dto.NewVideoResponse(video), nil
}

func (s *videoService) GetVideo(ctx context.Context, userId uuid.UUID, videoId uuid.UUID) (*dto.VideoResponse, error) {
	if err := s.metering.RequireEntitlement(ctx, userId, entity.ActionUpload); err != nil {
		return nil, err
	}

	video, err := s.findVideo(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if !video.OwnedBy(userId) {
		return nil, entity.ErrNotFound
	}
	return dto.NewVideoResponse(video), nil
}

func (s *videoService) SetConvertedSource(ctx context.Context, userId uuid.UUID, videoId uuid.UUID, src, title string) (*dto.VideoResponse, error) {
	if err := s.metering.RequireEntitlement(ctx, userId, entity.ActionClip); err != nil {
		return nil, err
	}

	video, err := s.findOwnedVideo(ctx, userId, videoId)
	if err != nil {
		return nil, err
	}

	video.ConVideoSrc = &src
	video.ConVideoTitle = &title
	video.UpdatedAt = time.Now()
	if err := s.updateVideo(ctx, video); err != nil {
		return nil, err
	}
	return dto.NewVideoResponse(video), nil
}

func (s *videoService) SetConvertedId(ctx context.Context, userId uuid.UUID, videoId uuid.UUID, conVideoId string) (*dto.VideoResponse, error) {
	conVideoId = strings.TrimSpace(conVideoId)
	if conVideoId == "" {
		return nil, fmt.Errorf("%w: conVideoId is required", entity.ErrInvalidRequest)
	}
	if err := s.metering.RequireEntitlement(ctx, userId, entity.ActionUpload); err != nil {
		return nil, err
	}

	video, err := s.findOwnedVideo(ctx, userId, videoId)
	if err != nil {
		return nil, err
	}
	if video.ConVideoId != nil && *video.ConVideoId == conVideoId {
		return dto.NewVideoResponse(video), nil
	}

	video.ConVideoId = &conVideoId
	video.UpdatedAt = time.Now()
	if err := s.updateVideo(ctx, video); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishVideoConverted(ctx, video.Id, userId, conVideoId)
	}
	s.chargeUpload(ctx, userId, video.Id, conVideoId)
	return dto.NewVideoResponse(video), nil
}

// chargeUpload runs after the video update has been committed, so its
// failures are handed to the retry worker instead of the caller.
func (s *videoService) chargeUpload(ctx context.Context, userId, videoId uuid.UUID, conVideoId string) {
	req := entity.ConsumptionRequest{
		UserId:    userId,
		Action:    entity.ActionUpload,
		Reference: fmt.Sprintf("video:%s:%s", videoId, conVideoId),
	}

	outcome, err := s.metering.Charge(ctx, req)
	if err == nil {
		if outcome == entity.OutcomeRejected || outcome == entity.OutcomeSkipped {
			s.logger.Warn(videoModule, "Upload was not charged", map[string]interface{}{
				"video_id":  videoId.String(),
				"reference": req.Reference,
				"outcome":   string(outcome),
			})
		}
		return
	}

	s.logger.Warn(videoModule, "Upload charge failed, queueing retry", map[string]interface{}{
		"video_id":  videoId.String(),
		"reference": req.Reference,
		"error":     err.Error(),
	})
	if s.retries == nil {
		return
	}
	if err := s.retries.Enqueue(context.WithoutCancel(ctx), req); err != nil {
		s.logger.Error(videoModule, "Failed to queue upload charge", map[string]interface{}{
			"reference": req.Reference,
			"error":     err.Error(),
		})
	}
}

func (s *videoService) ListVideos(ctx context.Context, userId uuid.UUID) ([]*dto.VideoResponse, error) {
	videos, err := readWithRetry(ctx, s.store, "list_videos", func(ctx context.Context) ([]*entity.Video, error) {
		return s.uowFactory.NewUnitOfWork(ctx).VideoRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.Oldest{},
		)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewVideoResponses(videos), nil
}

func (s *videoService) findVideo(ctx context.Context, videoId uuid.UUID) (*entity.Video, error) {
	video, err := readWithRetry(ctx, s.store, "find_video", func(ctx context.Context) (*entity.Video, error) {
		return s.uowFactory.NewUnitOfWork(ctx).VideoRepository().FindOne(ctx, specification.ByID{ID: videoId})
	})
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, entity.ErrNotFound
	}
	return video, nil
}

func (s *videoService) findOwnedVideo(ctx context.Context, userId, videoId uuid.UUID) (*entity.Video, error) {
	video, err := s.findVideo(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if !video.OwnedBy(userId) {
		s.logger.Warn(videoModule, "Rejected update of a video owned by another user", map[string]interface{}{
			"video_id": videoId.String(),
			"user_id":  userId.String(),
		})
		return nil, entity.ErrForbidden
	}
	return video, nil
}

func (s *videoService) updateVideo(ctx context.Context, video *entity.Video) error {
	err := writeOnce(ctx, s.store, "update_video", func(ctx context.Context) error {
		return s.uowFactory.NewUnitOfWork(ctx).VideoRepository().Update(ctx, video)
	})
	if err != nil && !errors.Is(err, entity.ErrStoreUnavailable) && !errors.Is(err, entity.ErrPersistence) {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	return err
}
