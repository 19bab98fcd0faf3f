package service

import (
	"errors"
	"fmt"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Session Errors =====
var (
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrForbidden     = errors.New("forbidden access")
	ErrEmailRequired = errors.New("email is required")
)

// ===== Resource Errors =====
var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
)

// ===== Store Errors =====
var (
	ErrStoreUnavailable = errors.New("store temporarily unavailable")
)

// storeError marks transport failures and breaker rejections as
// ErrStoreUnavailable. Other errors are returned unchanged.
func storeError(err error) error {
	if errors.Is(err, database.ErrUnavailable) || errors.Is(err, database.ErrConnection) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
