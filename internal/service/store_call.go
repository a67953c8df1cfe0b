package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v5"
)

// StoreCallOptions bound every call into the entitlement store.
type StoreCallOptions struct {
	Timeout         time.Duration
	ReadTries       uint
	InitialInterval time.Duration
	Metrics         *metrics.Metrics
}

func (o StoreCallOptions) withDefaults() StoreCallOptions {
	if o.Timeout <= 0 {
		o.Timeout = 3 * time.Second
	}
	if o.ReadTries == 0 {
		o.ReadTries = 3
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 100 * time.Millisecond
	}
	return o
}

func (o StoreCallOptions) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.InitialInterval
	b.MaxInterval = o.Timeout
	return b
}

// readWithRetry runs an idempotent read with a per-attempt timeout. Only
// ErrStoreUnavailable is retried; every other error ends the loop at once.
func readWithRetry[T any](ctx context.Context, o StoreCallOptions, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	op := func() (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, o.Timeout)
		defer cancel()

		start := time.Now()
		v, err := fn(callCtx)
		o.Metrics.ObserveStoreCall(operation, err, time.Since(start))
		if err != nil {
			if errors.Is(err, entity.ErrStoreUnavailable) {
				return v, err
			}
			return v, backoff.Permanent(err)
		}
		return v, nil
	}

	v, err := backoff.Retry(ctx, op, backoff.WithBackOff(o.backOff()), backoff.WithMaxTries(o.ReadTries))
	return v, asStoreError(err)
}

// writeOnce runs a single non-idempotent store call under the store timeout.
func writeOnce(ctx context.Context, o StoreCallOptions, operation string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	o.Metrics.ObserveStoreCall(operation, err, time.Since(start))
	return asStoreError(err)
}

// asStoreError maps context expiry onto ErrStoreUnavailable.
func asStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return err
}
