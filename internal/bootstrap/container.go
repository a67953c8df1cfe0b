package bootstrap

import (
	"context"
	"log"

	"video-saas-be/internal/config"
	"video-saas-be/internal/controller"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/pkg/metrics"
	"video-saas-be/internal/repository/memory"
	"video-saas-be/internal/repository/unitofwork"
	"video-saas-be/internal/service"
	"video-saas-be/pkg/events"
	"video-saas-be/pkg/metering"

	pktNats "video-saas-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	VideoController        controller.IVideoController
	SubscriptionController controller.ISubscriptionController

	// Background Services (Exposed for main.go to run)
	ChargeRetryService  service.ChargeRetryService
	BillingEventService service.BillingEventService

	// Infrastructure
	Logger  *logger.ZapLogger
	Metrics *metrics.Metrics
	Redis   *redis.Client
	DB      *gorm.DB

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	meteringLogger := logger.NewIsolatedLogger(cfg.Metering.LogFilePath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	c := &Container{
		Logger:  sysLogger,
		Metrics: appMetrics,
		DB:      db,
	}

	// 2. Event Bus (in-process, charge retries)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var bus events.Bus
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		bus = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	c.Redis = rdb
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	// 4. Services
	publisher := events.NewBusPublisher(bus, sysLogger)
	packageCache := memory.NewPackageCache(cfg.Metering.PackageCacheTTL)
	storeOpts := service.StoreCallOptions{
		Timeout:   cfg.Metering.StoreTimeout,
		ReadTries: cfg.Metering.ReadRetries,
		Metrics:   appMetrics,
	}

	meteringService := service.NewMeteringService(
		uowFactory,
		packageCache,
		publisher,
		appMetrics,
		meteringLogger,
		service.MeteringOptions{
			Store:  storeOpts,
			Policy: metering.Policy{Coupled: cfg.Metering.CoupledLimits},
		},
	)

	chargeRetryService := service.NewChargeRetryService(
		pubSub,
		uowFactory,
		meteringService,
		appMetrics,
		meteringLogger,
		service.ChargeRetryOptions{
			Topic:       cfg.Metering.ChargeTopic,
			Schedule:    cfg.Metering.SweepSchedule,
			GracePeriod: cfg.Metering.SweepGracePeriod,
			Store:       storeOpts,
		},
	)

	videoService := service.NewVideoService(uowFactory, meteringService, chargeRetryService, publisher, sysLogger, storeOpts)
	subscriptionService := service.NewSubscriptionService(uowFactory, meteringService, publisher, sysLogger, storeOpts)

	c.ChargeRetryService = chargeRetryService
	if natsSub != nil {
		c.BillingEventService = service.NewBillingEventService(natsSub, subscriptionService, sysLogger)
	}

	// 5. Controllers
	c.VideoController = controller.NewVideoController(videoService)
	c.SubscriptionController = controller.NewSubscriptionController(subscriptionService, meteringService)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
