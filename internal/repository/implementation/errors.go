package implementation

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"video-saas-be/internal/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

// translateError maps driver failures onto the domain error taxonomy so that
// services never have to look at gorm or pgx types.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrStoreUnavailable) || errors.Is(err, entity.ErrPersistence) {
		return err
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception, 57P: operator intervention (shutdown, cancel)
		code := pgErr.Code
		return len(code) >= 2 && (code[:2] == "08" || code == "57014" || code == "57P01")
	}
	return false
}
