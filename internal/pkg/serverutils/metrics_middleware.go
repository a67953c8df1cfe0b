package serverutils

import (
	"strconv"

	"video-saas-be/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// HTTPMetrics records one request counter sample per response. It must run
// before ErrorHandlerMiddleware so the final status is observed.
func HTTPMetrics(m *metrics.Metrics) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status = StatusFor(err)
		}
		m.RecordHTTPRequest(ctx.Method(), ctx.Route().Path, strconv.Itoa(status))
		return err
	}
}
