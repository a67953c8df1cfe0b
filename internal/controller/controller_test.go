package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"video-saas-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testUserId = uuid.MustParse("8d3f9f3c-3d61-4c4f-9a51-6b0f2f3f1a11")

func fakeAuth(ctx *fiber.Ctx) error {
	ctx.Locals("user_id", testUserId.String())
	return ctx.Next()
}

func newTestApp(register func(r fiber.Router, middlewares ...fiber.Handler)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(0))
	register(app.Group("/api"), fakeAuth)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope serverutils.BaseResponse[json.RawMessage]
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp, envelope
}
