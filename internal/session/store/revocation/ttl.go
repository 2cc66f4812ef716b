package revocation

import (
	"errors"
	"time"
)

// ErrInvalidTTL is returned when a revocation would never be observable.
var ErrInvalidTTL = errors.New("ttl must be positive")

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return nil
}
