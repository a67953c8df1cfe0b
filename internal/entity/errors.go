package entity

import "errors"

var (
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrNoUsageRecord        = errors.New("no usage record for subscription")
	ErrPackageNotFound      = errors.New("subscription package not found")
	ErrLimitExceeded        = errors.New("usage limit exceeded")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrPersistence          = errors.New("persistence error")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrAlreadyCanceled      = errors.New("subscription already canceled")
	ErrInvalidRequest       = errors.New("invalid request")
)

// IsPaymentRequired reports whether err should be presented as "payment required".
func IsPaymentRequired(err error) bool {
	return errors.Is(err, ErrNoActiveSubscription) ||
		errors.Is(err, ErrNoUsageRecord) ||
		errors.Is(err, ErrPackageNotFound) ||
		errors.Is(err, ErrLimitExceeded)
}
