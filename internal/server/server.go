package server

import (
	"context"
	"log"
	"time"

	"video-saas-be/internal/bootstrap"
	"video-saas-be/internal/config"
	"video-saas-be/internal/pkg/serverutils"
	"video-saas-be/pkg/database"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, Allow",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.HTTPMetrics(container.Metrics))
	app.Use(serverutils.ErrorHandlerMiddleware(cfg.Metering.PaymentRequiredStatus))

	// Operations
	app.Get("/metrics", adaptor.HTTPHandler(container.Metrics.Handler()))
	app.Get("/healthz", healthz(container))

	// Routes
	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func healthz(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
		defer cancel()

		if err := database.Ping(pingCtx, c.DB); err != nil {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "database unavailable"))
		}
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"database": "up"}))
	}
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	auth := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	limiter := serverutils.RateLimiter(c.Redis, cfg.App.RateLimitRequests, cfg.App.RateLimitWindow, c.Logger)

	c.VideoController.RegisterRoutes(api, auth, limiter)
	c.SubscriptionController.RegisterRoutes(api, auth, limiter)
}
