package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"video-saas-be/internal/bootstrap"
	"video-saas-be/internal/config"
	"video-saas-be/internal/server"
	"video-saas-be/internal/tracer"
	"video-saas-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Telemetry)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run server and background services until one fails or a signal arrives
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Println("Background: Starting Charge Retry Service...")
		return container.ChargeRetryService.Run(gctx)
	})

	if container.BillingEventService != nil {
		g.Go(func() error {
			log.Println("Background: Starting Billing Event Consumer...")
			return container.BillingEventService.Start(gctx)
		})
	}

	g.Go(srv.Run)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
