// Usage metering: entitlement checks and atomic usage charges
package service

import (
	"context"
	"fmt"
	"time"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/pkg/metrics"
	"video-saas-be/internal/repository/memory"
	"video-saas-be/internal/repository/specification"
	"video-saas-be/internal/repository/unitofwork"
	"video-saas-be/pkg/events"
	"video-saas-be/pkg/metering"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const meteringModule = "METERING"

var meteringTracer = otel.Tracer("video-saas-be/metering")

type MeteringService interface {
	CheckEntitlement(ctx context.Context, userId uuid.UUID, action entity.MeteredAction) (*entity.EntitlementDecision, error)
	// RequireEntitlement returns a *dto.LimitExceededError when the action is denied.
	RequireEntitlement(ctx context.Context, userId uuid.UUID, action entity.MeteredAction) error
	RecordConsumption(ctx context.Context, subscriptionId uuid.UUID, action entity.MeteredAction) (entity.ConsumptionOutcome, error)
	Charge(ctx context.Context, req entity.ConsumptionRequest) (entity.ConsumptionOutcome, error)
	GetUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error)
}

type MeteringOptions struct {
	Store  StoreCallOptions
	Policy metering.Policy
	Now    func() time.Time
}

type meteringService struct {
	uowFactory unitofwork.RepositoryFactory
	packages   *memory.PackageCache
	publisher  events.Publisher
	metrics    *metrics.Metrics
	logger     logger.ILogger
	store      StoreCallOptions
	policy     metering.Policy
	now        func() time.Time
}

func NewMeteringService(
	uowFactory unitofwork.RepositoryFactory,
	packages *memory.PackageCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger logger.ILogger,
	opts MeteringOptions,
) MeteringService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Store.Metrics = m
	return &meteringService{
		uowFactory: uowFactory,
		packages:   packages,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		store:      opts.Store.withDefaults(),
		policy:     opts.Policy,
		now:        opts.Now,
	}
}

// entitlementState is everything needed to evaluate or charge one action.
type entitlementState struct {
	subscription *entity.Subscription
	pkg          *entity.SubscriptionPackage
	usage        *entity.SubscriptionUsage
}

func (s *meteringService) CheckEntitlement(ctx context.Context, userId uuid.UUID, action entity.MeteredAction) (*entity.EntitlementDecision, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", entity.ErrInvalidRequest, action)
	}

	sub, err := s.findCurrentSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		s.metrics.RecordDecision(string(action), false)
		return nil, entity.ErrNoActiveSubscription
	}

	state, err := s.loadState(ctx, sub)
	if err != nil {
		if entity.IsPaymentRequired(err) {
			s.metrics.RecordDecision(string(action), false)
		}
		return nil, err
	}

	decision := s.evaluate(action, state)
	s.metrics.RecordDecision(string(action), decision.Allowed)
	return decision, nil
}

func (s *meteringService) RequireEntitlement(ctx context.Context, userId uuid.UUID, action entity.MeteredAction) error {
	decision, err := s.CheckEntitlement(ctx, userId, action)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return dto.NewLimitExceededError(decision)
	}
	return nil
}

func (s *meteringService) RecordConsumption(ctx context.Context, subscriptionId uuid.UUID, action entity.MeteredAction) (entity.ConsumptionOutcome, error) {
	return s.Charge(ctx, entity.ConsumptionRequest{
		SubscriptionId: &subscriptionId,
		Action:         action,
		Reference:      uuid.NewString(),
	})
}

func (s *meteringService) Charge(ctx context.Context, req entity.ConsumptionRequest) (entity.ConsumptionOutcome, error) {
	ctx, span := meteringTracer.Start(ctx, "metering.Charge")
	defer span.End()
	span.SetAttributes(
		attribute.String("metering.action", string(req.Action)),
		attribute.String("metering.reference", req.Reference),
	)

	outcome, err := s.charge(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(meteringModule, "Usage charge failed", map[string]interface{}{
			"reference": req.Reference,
			"user_id":   req.UserId.String(),
			"action":    string(req.Action),
			"error":     err.Error(),
		})
		return "", err
	}

	span.SetAttributes(attribute.String("metering.outcome", string(outcome)))
	s.metrics.RecordCharge(string(req.Action), string(outcome))
	return outcome, nil
}

func (s *meteringService) charge(ctx context.Context, req entity.ConsumptionRequest) (entity.ConsumptionOutcome, error) {
	if !req.Action.Valid() {
		return "", fmt.Errorf("%w: unknown action %q", entity.ErrInvalidRequest, req.Action)
	}
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}

	state, owner, err := s.resolveChargeTarget(ctx, req)
	if err != nil {
		return "", err
	}
	if req.UserId == uuid.Nil {
		req.UserId = owner
	}
	if req.UserId == uuid.Nil {
		// Nothing identifies an owner, so there is no ledger row to write either.
		s.logger.Warn(meteringModule, "Charge skipped: subscription not found", map[string]interface{}{
			"subscription_id": uuidString(req.SubscriptionId),
			"reference":       req.Reference,
		})
		return entity.OutcomeSkipped, nil
	}

	var outcome entity.ConsumptionOutcome
	err = writeOnce(ctx, s.store, "charge", func(ctx context.Context) error {
		var txErr error
		outcome, txErr = s.chargeInTx(ctx, req, state)
		return txErr
	})
	if err != nil {
		return "", err
	}

	if outcome == entity.OutcomeCharged && s.publisher != nil {
		s.publisher.PublishUsageCharged(ctx, state.subscription.Id, string(req.Action), string(outcome), req.Reference)
	}
	return outcome, nil
}

// chargeInTx claims the ledger row and advances the counter in one transaction,
// so a reference is settled at most once.
func (s *meteringService) chargeInTx(ctx context.Context, req entity.ConsumptionRequest, state *entitlementState) (entity.ConsumptionOutcome, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	charge := &entity.UsageCharge{
		Reference: req.Reference,
		UserId:    req.UserId,
		Action:    req.Action,
	}
	if state.subscription != nil {
		charge.SubscriptionId = &state.subscription.Id
	}

	claimed, err := uow.UsageChargeRepository().Claim(ctx, charge)
	if err != nil {
		return "", err
	}
	if !claimed {
		return entity.OutcomeDuplicate, nil
	}

	outcome, lastError, err := s.applyIncrement(ctx, uow, req, state)
	if err != nil {
		return "", err
	}

	if err := uow.UsageChargeRepository().Settle(ctx, req.Reference, entity.StatusFor(outcome), lastError); err != nil {
		return "", err
	}
	if err := uow.Commit(); err != nil {
		return "", err
	}
	return outcome, nil
}

func (s *meteringService) applyIncrement(ctx context.Context, uow unitofwork.UnitOfWork, req entity.ConsumptionRequest, state *entitlementState) (entity.ConsumptionOutcome, string, error) {
	details := map[string]interface{}{
		"user_id":   req.UserId.String(),
		"action":    string(req.Action),
		"reference": req.Reference,
	}

	switch {
	case state.subscription == nil:
		s.logger.Warn(meteringModule, "Charge skipped: no active subscription", details)
		return entity.OutcomeSkipped, entity.ErrNoActiveSubscription.Error(), nil
	case state.usage == nil:
		details["subscription_id"] = state.subscription.Id.String()
		s.logger.Warn(meteringModule, "Charge skipped: no usage record for subscription", details)
		return entity.OutcomeSkipped, entity.ErrNoUsageRecord.Error(), nil
	case state.pkg == nil:
		details["subscription_id"] = state.subscription.Id.String()
		s.logger.Warn(meteringModule, "Charge skipped: subscription package missing", details)
		return entity.OutcomeSkipped, entity.ErrPackageNotFound.Error(), nil
	}

	limit := state.pkg.LimitFor(req.Action)
	ok, err := uow.SubscriptionRepository().IncrementUsage(ctx, state.usage.Id, req.Action, limit)
	if err != nil {
		return "", "", err
	}
	if !ok {
		details["subscription_id"] = state.subscription.Id.String()
		details["usage_id"] = state.usage.Id.String()
		details["limit"] = limit
		s.logger.Warn(meteringModule, "Charge rejected: counter already at limit", details)
		return entity.OutcomeRejected, entity.ErrLimitExceeded.Error(), nil
	}
	return entity.OutcomeCharged, "", nil
}

// resolveChargeTarget finds the subscription, package and usage row a charge
// applies to, plus the subscription owner. Missing pieces are left nil; only
// store failures are errors.
func (s *meteringService) resolveChargeTarget(ctx context.Context, req entity.ConsumptionRequest) (*entitlementState, uuid.UUID, error) {
	owner := req.UserId

	var sub *entity.Subscription
	var err error
	if req.SubscriptionId != nil {
		sub, err = s.findSubscription(ctx, *req.SubscriptionId)
		if err == nil && sub != nil {
			owner = sub.UserId
			if !sub.IsCurrent(s.now()) {
				sub = nil
			}
		}
	} else {
		sub, err = s.findCurrentSubscription(ctx, req.UserId)
	}
	if err != nil {
		return nil, owner, err
	}

	state := &entitlementState{subscription: sub}
	if sub == nil {
		return state, owner, nil
	}

	loaded, err := s.loadState(ctx, sub)
	if err != nil && !entity.IsPaymentRequired(err) {
		return nil, owner, err
	}
	if loaded != nil {
		state = loaded
	}
	return state, owner, nil
}

// loadState resolves package and current usage for sub. The returned state is
// partially filled alongside payment-required errors.
func (s *meteringService) loadState(ctx context.Context, sub *entity.Subscription) (*entitlementState, error) {
	state := &entitlementState{subscription: sub}

	pkg, err := s.resolvePackage(ctx, sub)
	if err != nil {
		return state, err
	}
	state.pkg = pkg

	usage, err := readWithRetry(ctx, s.store, "find_usage", func(ctx context.Context) (*entity.SubscriptionUsage, error) {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.SubscriptionRepository().FindOneUsage(ctx,
			specification.BySubscriptionID{SubscriptionID: sub.Id},
			specification.Newest{},
		)
	})
	if err != nil {
		return state, err
	}
	if usage == nil {
		s.logger.Warn(meteringModule, "Active subscription has no usage record", map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"user_id":         sub.UserId.String(),
		})
		return state, entity.ErrNoUsageRecord
	}
	state.usage = usage
	return state, nil
}

func (s *meteringService) resolvePackage(ctx context.Context, sub *entity.Subscription) (*entity.SubscriptionPackage, error) {
	if sub.Package != nil {
		s.packages.Save(sub.Package)
		return sub.Package, nil
	}
	if pkg, found := s.packages.Get(sub.SubscriptionPackageId); found {
		return pkg, nil
	}

	pkg, err := readWithRetry(ctx, s.store, "find_package", func(ctx context.Context) (*entity.SubscriptionPackage, error) {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.SubscriptionRepository().FindOnePackage(ctx, specification.ByID{ID: sub.SubscriptionPackageId})
	})
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		s.logger.Warn(meteringModule, "Subscription references a missing package", map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"package_id":      sub.SubscriptionPackageId.String(),
		})
		return nil, entity.ErrPackageNotFound
	}
	s.packages.Save(pkg)
	return pkg, nil
}

func (s *meteringService) findCurrentSubscription(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	now := s.now()
	return readWithRetry(ctx, s.store, "find_current_subscription", func(ctx context.Context) (*entity.Subscription, error) {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.SubscriptionRepository().FindOneSubscription(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.CurrentSubscription{Now: now},
			specification.Newest{},
		)
	})
}

func (s *meteringService) findSubscription(ctx context.Context, subscriptionId uuid.UUID) (*entity.Subscription, error) {
	return readWithRetry(ctx, s.store, "find_subscription", func(ctx context.Context) (*entity.Subscription, error) {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		return uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subscriptionId})
	})
}

func (s *meteringService) evaluate(action entity.MeteredAction, state *entitlementState) *entity.EntitlementDecision {
	verdict := s.policy.Evaluate(
		metering.Counter(action),
		metering.Limits{Upload: state.pkg.UploadVideoLimit, Clip: state.pkg.GenerateClips},
		metering.Counters{Upload: state.usage.UploadCount, Clip: state.usage.ClipCount},
	)
	return &entity.EntitlementDecision{
		Allowed:        verdict.Allowed,
		Action:         action,
		BlockedBy:      entity.MeteredAction(verdict.BlockedBy),
		Limit:          verdict.Limit,
		Used:           verdict.Used,
		SubscriptionId: state.subscription.Id,
		UsageId:        state.usage.Id,
	}
}

func (s *meteringService) GetUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	sub, err := s.findCurrentSubscription(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, entity.ErrNoActiveSubscription
	}
	state, err := s.loadState(ctx, sub)
	if err != nil {
		return nil, err
	}
	return s.usageStatus(state), nil
}

func (s *meteringService) usageStatus(state *entitlementState) *dto.UsageStatusResponse {
	pkg, usage := state.pkg, state.usage
	upload := s.evaluate(entity.ActionUpload, state)
	clip := s.evaluate(entity.ActionClip, state)

	return &dto.UsageStatusResponse{
		SubscriptionId: state.subscription.Id,
		Package: dto.PackageInfo{
			Id:               pkg.Id,
			SubscriptionType: pkg.SubscriptionType,
			SubDurType:       string(pkg.SubDurType),
			Features:         pkg.Features,
		},
		Upload: dto.UsageLimit{
			Used:      usage.UploadCount,
			Limit:     pkg.UploadVideoLimit,
			Remaining: metering.Remaining(pkg.UploadVideoLimit, usage.UploadCount),
			CanUse:    upload.Allowed,
		},
		Clip: dto.UsageLimit{
			Used:      usage.ClipCount,
			Limit:     pkg.GenerateClips,
			Remaining: metering.Remaining(pkg.GenerateClips, usage.ClipCount),
			CanUse:    clip.Allowed,
		},
		Minutes: dto.MinutesUsage{
			Used:  usage.Min,
			Limit: pkg.TotalMin,
		},
		PeriodStart: usage.CreatedAt,
		PeriodEnd:   pkg.PeriodEnd(usage.CreatedAt),
		CancelAt:    state.subscription.CancelAt,
	}
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
