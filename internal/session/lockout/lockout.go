// Package lockout slows down password guessing. Repeated login failures for
// the same email and client IP within a window lock that pair out for a while.
package lockout

import (
	"context"
	"log/slog"
	"strings"
	"time"

	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/requestcontext"
)

// Store counts failures and holds locks. Implementations expire both on
// their own.
type Store interface {
	// RecordFailure increments the failure count for key and returns it. The
	// count starts over once window has passed since the first failure.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	// Lock blocks key for d.
	Lock(ctx context.Context, key string, d time.Duration) error
	// LockedFor returns the remaining lock time, zero when not locked.
	LockedFor(ctx context.Context, key string) (time.Duration, error)
	// Clear drops the failure count and any lock.
	Clear(ctx context.Context, key string) error
}

// Policy is "MaxFailures within Window locks for LockDuration".
type Policy struct {
	MaxFailures  int           `yaml:"max_failures"`
	Window       time.Duration `yaml:"window"`
	LockDuration time.Duration `yaml:"lock_duration"`
}

// DefaultPolicy allows five attempts per fifteen minutes.
func DefaultPolicy() Policy {
	return Policy{MaxFailures: 5, Window: 15 * time.Minute, LockDuration: 15 * time.Minute}
}

type Service struct {
	store  Store
	policy Policy
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPolicy overrides the defaults; zero fields keep theirs.
func WithPolicy(p Policy) Option {
	return func(s *Service) {
		if p.MaxFailures > 0 {
			s.policy.MaxFailures = p.MaxFailures
		}
		if p.Window > 0 {
			s.policy.Window = p.Window
		}
		if p.LockDuration > 0 {
			s.policy.LockDuration = p.LockDuration
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, policy: DefaultPolicy(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key builds the composite email and client IP identifier.
func Key(email, ip string) string {
	return strings.ToLower(strings.TrimSpace(email)) + "|" + ip
}

// Check rejects the attempt with rate_limited while the pair is locked.
func (s *Service) Check(ctx context.Context, email string) error {
	remaining, err := s.store.LockedFor(ctx, s.key(ctx, email))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "failed to check login lockout")
	}
	if remaining > 0 {
		return dErrors.New(dErrors.CodeRateLimited,
			"too many failed login attempts, try again in "+remaining.Round(time.Second).String())
	}
	return nil
}

// RecordFailure counts a failed attempt and reports whether it triggered a
// lock.
func (s *Service) RecordFailure(ctx context.Context, email string) (locked bool, err error) {
	key := s.key(ctx, email)
	count, err := s.store.RecordFailure(ctx, key, s.policy.Window)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeStorage, "failed to record login failure")
	}
	if count < s.policy.MaxFailures {
		return false, nil
	}
	if err := s.store.Lock(ctx, key, s.policy.LockDuration); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeStorage, "failed to lock login")
	}
	s.logger.WarnContext(ctx, "login locked",
		"email", email,
		"failures", count,
		"lock_duration", s.policy.LockDuration.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return true, nil
}

// Clear resets the pair after a successful login.
func (s *Service) Clear(ctx context.Context, email string) error {
	if err := s.store.Clear(ctx, s.key(ctx, email)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "failed to clear login failures")
	}
	return nil
}

func (s *Service) key(ctx context.Context, email string) string {
	return Key(email, requestcontext.ClientIP(ctx))
}
