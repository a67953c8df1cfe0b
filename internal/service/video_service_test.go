package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/repository/mocks"
	"video-saas-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMetering struct {
	mock.Mock
}

func (m *mockMetering) CheckEntitlement(ctx context.Context, userId uuid.UUID, action entity.MeteredAction) (*entity.EntitlementDecision, error) {
	args := m.Called(ctx, userId, action)
	if d, ok := args.Get(0).(*entity.EntitlementDecision); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMetering) RequireEntitlement(ctx context.Context, userId uuid.UUID, action entity.MeteredAction) error {
	return m.Called(ctx, userId, action).Error(0)
}

func (m *mockMetering) RecordConsumption(ctx context.Context, subscriptionId uuid.UUID, action entity.MeteredAction) (entity.ConsumptionOutcome, error) {
	args := m.Called(ctx, subscriptionId, action)
	return args.Get(0).(entity.ConsumptionOutcome), args.Error(1)
}

func (m *mockMetering) Charge(ctx context.Context, req entity.ConsumptionRequest) (entity.ConsumptionOutcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(entity.ConsumptionOutcome), args.Error(1)
}

func (m *mockMetering) GetUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	args := m.Called(ctx, userId)
	if s, ok := args.Get(0).(*dto.UsageStatusResponse); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, req entity.ConsumptionRequest) error {
	return m.Called(ctx, req).Error(0)
}

type videoFixture struct {
	uow      *mocks.UnitOfWork
	videos   *mocks.VideoRepository
	metering *mockMetering
	retries  *mockEnqueuer
	svc      VideoService
}

func newVideoFixture() *videoFixture {
	factory := new(mocks.RepositoryFactory)
	f := &videoFixture{
		uow:      new(mocks.UnitOfWork),
		videos:   new(mocks.VideoRepository),
		metering: new(mockMetering),
		retries:  new(mockEnqueuer),
	}
	factory.On("NewUnitOfWork", mock.Anything).Return(f.uow)
	f.uow.On("VideoRepository").Return(f.videos)

	f.svc = NewVideoService(factory, f.metering, f.retries, nil, logger.NewNopLogger(),
		StoreCallOptions{Timeout: time.Second, ReadTries: 2, InitialInterval: time.Millisecond})
	return f
}

func (f *videoFixture) entitled(userId uuid.UUID, action entity.MeteredAction) {
	f.metering.On("RequireEntitlement", mock.Anything, userId, action).Return(nil)
}

func strPtr(s string) *string { return &s }

func TestCreateVideo_ThenListReturnsIt(t *testing.T) {
	f := newVideoFixture()
	userId := uuid.New()
	f.entitled(userId, entity.ActionUpload)

	// In-memory stand-in for the videos table.
	var mu sync.Mutex
	var stored []*entity.Video
	f.videos.On("Create", mock.Anything, mock.Anything).Return(func(ctx context.Context, v *entity.Video) error {
		mu.Lock()
		defer mu.Unlock()
		copied := *v
		stored = append(stored, &copied)
		return nil
	})
	f.videos.On("FindAll", mock.Anything, mock.Anything).Return(func(ctx context.Context, specs ...specification.Specification) []*entity.Video {
		mu.Lock()
		defer mu.Unlock()
		owner := specs[0].(specification.UserOwnedBy).UserID
		var result []*entity.Video
		for _, v := range stored {
			if v.UserId == owner {
				result = append(result, v)
			}
		}
		return result
	}, nil)

	created, err := f.svc.CreateVideo(context.Background(), userId, "https://example.com/v.mp4")
	require.NoError(t, err)
	assert.Equal(t, userId, created.UserId)

	videos, err := f.svc.ListVideos(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "https://example.com/v.mp4", videos[0].Link)
	assert.Equal(t, created.Id, videos[0].Id)

	others, err := f.svc.ListVideos(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCreateVideo_DeniedDoesNotWrite(t *testing.T) {
	f := newVideoFixture()
	userId := uuid.New()
	f.metering.On("RequireEntitlement", mock.Anything, userId, entity.ActionUpload).
		Return(&dto.LimitExceededError{Action: entity.ActionUpload, BlockedBy: entity.ActionUpload, Limit: 2, Used: 2})

	_, err := f.svc.CreateVideo(context.Background(), userId, "https://example.com/v.mp4")
	assert.ErrorIs(t, err, entity.ErrLimitExceeded)
	f.videos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListVideos_IsIdempotent(t *testing.T) {
	f := newVideoFixture()
	userId := uuid.New()
	rows := []*entity.Video{
		{Id: uuid.New(), UserId: userId, Link: "https://example.com/a.mp4"},
		{Id: uuid.New(), UserId: userId, Link: "https://example.com/b.mp4"},
	}
	f.videos.On("FindAll", mock.Anything, mock.MatchedBy(func(specs []specification.Specification) bool {
		_, ordered := specs[len(specs)-1].(specification.Oldest)
		return ordered
	})).Return(rows, nil)

	first, err := f.svc.ListVideos(context.Background(), userId)
	require.NoError(t, err)
	second, err := f.svc.ListVideos(context.Background(), userId)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestGetVideo(t *testing.T) {
	owner := uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner, Link: "https://example.com/v.mp4"}

	t.Run("owner sees the video", func(t *testing.T) {
		f := newVideoFixture()
		f.entitled(owner, entity.ActionUpload)
		f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)

		got, err := f.svc.GetVideo(context.Background(), owner, video.Id)
		require.NoError(t, err)
		assert.Equal(t, video.Id, got.Id)
	})

	t.Run("other users get not found", func(t *testing.T) {
		f := newVideoFixture()
		stranger := uuid.New()
		f.entitled(stranger, entity.ActionUpload)
		f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)

		_, err := f.svc.GetVideo(context.Background(), stranger, video.Id)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("missing video", func(t *testing.T) {
		f := newVideoFixture()
		f.entitled(owner, entity.ActionUpload)
		f.videos.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := f.svc.GetVideo(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestSetConvertedSource_ForbiddenLeavesVideoUnchanged(t *testing.T) {
	f := newVideoFixture()
	owner, intruder := uuid.New(), uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner, Link: "https://example.com/v.mp4"}
	before := *video

	f.entitled(intruder, entity.ActionClip)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)

	_, err := f.svc.SetConvertedSource(context.Background(), intruder, video.Id, "https://cdn.example.com/c.mp4", "clip")
	assert.ErrorIs(t, err, entity.ErrForbidden)
	assert.Equal(t, before, *video)
	f.videos.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSetConvertedSource_UpdatesOwnedVideo(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner, Link: "https://example.com/v.mp4"}

	f.entitled(owner, entity.ActionClip)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)
	f.videos.On("Update", mock.Anything, mock.MatchedBy(func(v *entity.Video) bool {
		return v.ConVideoSrc != nil && *v.ConVideoSrc == "https://cdn.example.com/c.mp4" &&
			v.ConVideoTitle != nil && *v.ConVideoTitle == "Best moments"
	})).Return(nil).Once()

	got, err := f.svc.SetConvertedSource(context.Background(), owner, video.Id, "https://cdn.example.com/c.mp4", "Best moments")
	require.NoError(t, err)
	assert.Equal(t, "Best moments", *got.ConVideoTitle)
	f.videos.AssertExpectations(t)
}

func TestSetConvertedSource_MissingVideo(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	f.entitled(owner, entity.ActionClip)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := f.svc.SetConvertedSource(context.Background(), owner, uuid.New(), "src", "title")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSetConvertedId_ChargesAfterUpdate(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner, Link: "https://example.com/v.mp4"}
	reference := "video:" + video.Id.String() + ":job-42"

	f.entitled(owner, entity.ActionUpload)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)
	f.videos.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	f.metering.On("Charge", mock.Anything, entity.ConsumptionRequest{
		UserId:    owner,
		Action:    entity.ActionUpload,
		Reference: reference,
	}).Return(entity.OutcomeCharged, nil).Once()

	got, err := f.svc.SetConvertedId(context.Background(), owner, video.Id, "job-42")
	require.NoError(t, err)
	assert.Equal(t, "job-42", *got.ConVideoId)
	f.metering.AssertExpectations(t)
	f.retries.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestSetConvertedId_SameIdIsNoop(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner, ConVideoId: strPtr("job-42")}

	f.entitled(owner, entity.ActionUpload)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)

	_, err := f.svc.SetConvertedId(context.Background(), owner, video.Id, "job-42")
	require.NoError(t, err)
	f.videos.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.metering.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestSetConvertedId_FailedUpdateIsNotCharged(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner}

	f.entitled(owner, entity.ActionUpload)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)
	f.videos.On("Update", mock.Anything, mock.Anything).Return(entity.ErrStoreUnavailable)

	_, err := f.svc.SetConvertedId(context.Background(), owner, video.Id, "job-42")
	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
	f.metering.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestSetConvertedId_ChargeFailureIsQueued(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner}

	f.entitled(owner, entity.ActionUpload)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)
	f.videos.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.metering.On("Charge", mock.Anything, mock.Anything).Return(entity.ConsumptionOutcome(""), entity.ErrStoreUnavailable)
	f.retries.On("Enqueue", mock.Anything, mock.MatchedBy(func(req entity.ConsumptionRequest) bool {
		return req.UserId == owner && req.Reference == "video:"+video.Id.String()+":job-7"
	})).Return(nil).Once()

	got, err := f.svc.SetConvertedId(context.Background(), owner, video.Id, "job-7")
	require.NoError(t, err)
	assert.Equal(t, "job-7", *got.ConVideoId)
	f.retries.AssertExpectations(t)
}

func TestSetConvertedId_Forbidden(t *testing.T) {
	f := newVideoFixture()
	owner, intruder := uuid.New(), uuid.New()
	video := &entity.Video{Id: uuid.New(), UserId: owner}

	f.entitled(intruder, entity.ActionUpload)
	f.videos.On("FindOne", mock.Anything, mock.Anything).Return(video, nil)

	_, err := f.svc.SetConvertedId(context.Background(), intruder, video.Id, "job-1")
	assert.ErrorIs(t, err, entity.ErrForbidden)
	assert.Nil(t, video.ConVideoId)
}

func TestSetConvertedId_Denied(t *testing.T) {
	f := newVideoFixture()
	owner := uuid.New()
	f.metering.On("RequireEntitlement", mock.Anything, owner, entity.ActionUpload).Return(entity.ErrNoActiveSubscription)

	_, err := f.svc.SetConvertedId(context.Background(), owner, uuid.New(), "job-1")
	assert.True(t, errors.Is(err, entity.ErrNoActiveSubscription))
	f.videos.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}
