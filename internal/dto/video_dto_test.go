package dto

import (
	"errors"
	"testing"

	"video-saas-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUploadVideoRequest_Variant(t *testing.T) {
	id := uuid.New()

	t.Run("create", func(t *testing.T) {
		v, err := (&UploadVideoRequest{OrigionalVideoLink: strPtr("https://cdn.example.com/a.mp4")}).Variant()
		require.NoError(t, err)
		assert.Equal(t, CreateVideoRequest{Link: "https://cdn.example.com/a.mp4"}, v)
	})

	t.Run("fetch", func(t *testing.T) {
		v, err := (&UploadVideoRequest{FetchVideoById: strPtr(id.String())}).Variant()
		require.NoError(t, err)
		assert.Equal(t, FetchVideoRequest{VideoId: id}, v)
	})

	t.Run("update source", func(t *testing.T) {
		v, err := (&UploadVideoRequest{
			SrcUrl:              strPtr("https://cdn.example.com/out.mp4"),
			UpdateConVidSrcById: strPtr(id.String()),
			Title:               strPtr("Highlights"),
		}).Variant()
		require.NoError(t, err)
		assert.Equal(t, UpdateVideoSourceRequest{VideoId: id, SrcUrl: "https://cdn.example.com/out.mp4", Title: "Highlights"}, v)
	})

	t.Run("source without target id", func(t *testing.T) {
		_, err := (&UploadVideoRequest{SrcUrl: strPtr("https://x")}).Variant()
		assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	})

	t.Run("ambiguous body", func(t *testing.T) {
		_, err := (&UploadVideoRequest{
			OrigionalVideoLink: strPtr("https://cdn.example.com/a.mp4"),
			FetchVideoById:     strPtr(id.String()),
		}).Variant()
		assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := (&UploadVideoRequest{OrigionalVideoLink: strPtr("  ")}).Variant()
		assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := (&UploadVideoRequest{FetchVideoById: strPtr("not-a-uuid")}).Variant()
		assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	})
}

func TestLimitExceededError(t *testing.T) {
	err := NewLimitExceededError(&entity.EntitlementDecision{
		Action:    entity.ActionUpload,
		BlockedBy: entity.ActionClip,
		Limit:     3,
		Used:      3,
	})

	assert.True(t, errors.Is(err, entity.ErrLimitExceeded))
	assert.True(t, entity.IsPaymentRequired(err))
	assert.Equal(t, "clip limit reached (3/3)", err.Error())
}
