package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/pkg/metrics"
	"video-saas-be/internal/repository/specification"
	"video-saas-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const chargeRetryModule = "CHARGE_RETRY"

// UsageCharger settles a single consumption request. MeteringService implements it.
type UsageCharger interface {
	Charge(ctx context.Context, req entity.ConsumptionRequest) (entity.ConsumptionOutcome, error)
}

type ChargeRetryService interface {
	// Enqueue hands a charge that failed in the request path to the background worker.
	Enqueue(ctx context.Context, req entity.ConsumptionRequest) error
	Consume(ctx context.Context) error
	// SweepPending re-drives ledger rows left pending longer than the grace period.
	SweepPending(ctx context.Context) (int, error)
	// Run consumes the topic and runs the sweep schedule until ctx is done.
	Run(ctx context.Context) error
}

type ChargeRetryOptions struct {
	Topic         string
	Schedule      string
	GracePeriod   time.Duration
	MaxTries      uint
	RetryInterval time.Duration
	Store         StoreCallOptions
	Now           func() time.Time
}

type chargeRetryService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	charger    UsageCharger
	metrics    *metrics.Metrics
	logger     logger.ILogger
	opts       ChargeRetryOptions
}

func NewChargeRetryService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	charger UsageCharger,
	m *metrics.Metrics,
	logger logger.ILogger,
	opts ChargeRetryOptions,
) ChargeRetryService {
	if opts.Topic == "" {
		opts.Topic = "USAGE_CHARGE_RETRY"
	}
	if opts.Schedule == "" {
		opts.Schedule = "@every 1m"
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 2 * time.Minute
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = 5
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Store.Metrics = m
	opts.Store = opts.Store.withDefaults()

	return &chargeRetryService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		charger:    charger,
		metrics:    m,
		logger:     logger,
		opts:       opts,
	}
}

func (s *chargeRetryService) Enqueue(ctx context.Context, req entity.ConsumptionRequest) error {
	if req.Reference == "" {
		return fmt.Errorf("%w: charge reference is required", entity.ErrInvalidRequest)
	}
	s.metrics.RecordRetry("enqueue")

	// The pending row lets the sweeper recover the charge if the message is lost.
	err := writeOnce(ctx, s.opts.Store, "enqueue_charge", func(ctx context.Context) error {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.UsageChargeRepository().CreateIfAbsent(ctx, &entity.UsageCharge{
			Id:             uuid.New(),
			Reference:      req.Reference,
			UserId:         req.UserId,
			SubscriptionId: req.SubscriptionId,
			Action:         req.Action,
			Status:         entity.ChargeStatusPending,
			Details:        map[string]interface{}{"source": "enqueue"},
		})
	})
	if err != nil {
		s.logger.Warn(chargeRetryModule, "Failed to persist pending charge", map[string]interface{}{
			"reference": req.Reference,
			"error":     err.Error(),
		})
	}

	payload, err := json.Marshal(dto.NewChargeRetryMessage(req))
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.opts.Topic, msg); err != nil {
		s.logger.Error(chargeRetryModule, "Failed to publish charge retry", map[string]interface{}{
			"reference": req.Reference,
			"error":     err.Error(),
		})
		return err
	}

	s.logger.Info(chargeRetryModule, "Charge queued for retry", map[string]interface{}{
		"reference": req.Reference,
		"action":    string(req.Action),
	})
	return nil
}

func (s *chargeRetryService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.opts.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *chargeRetryService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ChargeRetryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error(chargeRetryModule, "Dropping malformed charge message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	outcome, err := s.settle(ctx, payload.Request())
	if err != nil {
		// Acked anyway: the pending ledger row is picked up by the sweeper.
		s.logger.Error(chargeRetryModule, "Charge retry exhausted", map[string]interface{}{
			"reference": payload.Reference,
			"error":     err.Error(),
		})
		msg.Ack()
		return
	}

	s.logger.Info(chargeRetryModule, "Charge settled", map[string]interface{}{
		"reference": payload.Reference,
		"outcome":   string(outcome),
	})
	msg.Ack()
}

// settle retries a charge with backoff. Replays are safe because the ledger
// reference turns a repeated charge into a duplicate.
func (s *chargeRetryService) settle(ctx context.Context, req entity.ConsumptionRequest) (entity.ConsumptionOutcome, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.RetryInterval

	op := func() (entity.ConsumptionOutcome, error) {
		outcome, err := s.charger.Charge(ctx, req)
		if errors.Is(err, entity.ErrInvalidRequest) {
			return "", backoff.Permanent(err)
		}
		return outcome, err
	}
	return backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(s.opts.MaxTries))
}

func (s *chargeRetryService) SweepPending(ctx context.Context) (int, error) {
	cutoff := s.opts.Now().Add(-s.opts.GracePeriod)
	pending, err := readWithRetry(ctx, s.opts.Store, "find_pending_charges", func(ctx context.Context) ([]*entity.UsageCharge, error) {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.UsageChargeRepository().FindAll(ctx,
			specification.ByChargeStatus{Status: string(entity.ChargeStatusPending)},
			specification.UpdatedBefore{Time: cutoff},
		)
	})
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, charge := range pending {
		s.metrics.RecordRetry("sweep")
		outcome, err := s.charger.Charge(ctx, entity.ConsumptionRequest{
			UserId:         charge.UserId,
			SubscriptionId: charge.SubscriptionId,
			Action:         charge.Action,
			Reference:      charge.Reference,
		})
		if err != nil {
			s.logger.Warn(chargeRetryModule, "Sweep could not settle charge", map[string]interface{}{
				"reference": charge.Reference,
				"attempts":  charge.Attempts,
				"error":     err.Error(),
			})
			continue
		}
		if outcome != entity.OutcomeDuplicate {
			settled++
		}
	}

	if len(pending) > 0 {
		s.logger.Info(chargeRetryModule, "Pending charge sweep finished", map[string]interface{}{
			"pending": len(pending),
			"settled": settled,
		})
	}
	return settled, nil
}

func (s *chargeRetryService) Run(ctx context.Context) error {
	if err := s.Consume(ctx); err != nil {
		return err
	}

	c := cron.New()
	_, err := c.AddFunc(s.opts.Schedule, func() {
		if _, err := s.SweepPending(ctx); err != nil {
			s.logger.Error(chargeRetryModule, "Pending charge sweep failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.opts.Schedule, err)
	}
	c.Start()
	s.logger.Info(chargeRetryModule, "Charge retry worker started", map[string]interface{}{
		"topic":    s.opts.Topic,
		"schedule": s.opts.Schedule,
	})

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	return nil
}
