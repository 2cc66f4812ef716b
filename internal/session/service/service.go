package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"eventgate/internal/audit"
	jwttoken "eventgate/internal/jwt_token"
	"eventgate/internal/session/device"
	"eventgate/internal/session/metrics"
	"eventgate/internal/session/models"
	"eventgate/internal/session/secrets"
	"eventgate/pkg/attrs"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/sentinel"
	"eventgate/pkg/requestcontext"
)

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// TokenRevocationList remembers logged-out token ids until they expire.
type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(identity domain.Identity, expiresIn time.Duration) (*jwttoken.Issued, error)
	ValidateToken(token string) (*jwttoken.Claims, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// LoginGuard throttles repeated login failures for an email.
type LoginGuard interface {
	Check(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string) (locked bool, err error)
	Clear(ctx context.Context, email string) error
}

// Service is the session provider: it registers accounts, issues and
// revokes session tokens, and resolves a token to the identity it carries.
type Service struct {
	accounts       AccountStore
	revocations    TokenRevocationList
	tokens         TokenIssuer
	sessionTTL     time.Duration
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	loginGuard     LoginGuard

	subMu       sync.RWMutex
	nextSubID   int
	subscribers map[int]func(models.Change)
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithLoginGuard(guard LoginGuard) Option {
	return func(s *Service) {
		s.loginGuard = guard
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

const defaultSessionTTL = 24 * time.Hour

func New(accounts AccountStore, revocations TokenRevocationList, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		accounts:    accounts,
		revocations: revocations,
		tokens:      tokens,
		sessionTTL:  defaultSessionTTL,
		logger:      slog.Default(),
		tracer:      otel.Tracer("eventgate/internal/session/service"),
		subscribers: make(map[int]func(models.Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates an account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, creds models.Credentials) (*models.Result, error) {
	ctx, span := s.tracer.Start(ctx, "session.SignUp")
	defer span.End()

	creds.Normalize()
	if err := creds.ValidateSignUp(); err != nil {
		return nil, err
	}
	hash, err := secrets.Hash(creds.Password)
	if err != nil {
		if _, coded := dErrors.CodeOf(err); coded {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to secure password")
	}

	account := &models.Account{
		UserID:       domain.UserID(uuid.NewString()),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to create account")
	}

	result, err := s.open(account.Identity(), "Account created successfully")
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementSignUps()
	s.logAudit(ctx, audit.ActionUserSignedUp, "user_id", account.UserID, "email", account.Email)
	s.notify(models.Change{Kind: models.ChangeSignedUp, Identity: result.Identity})
	return result, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password are reported identically.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.Result, error) {
	ctx, span := s.tracer.Start(ctx, "session.Login")
	defer span.End()

	creds.Normalize()
	if err := creds.ValidateLogin(); err != nil {
		return nil, err
	}
	if err := s.checkGuard(ctx, creds.Email); err != nil {
		s.metrics.IncrementLogin("locked")
		return nil, err
	}
	invalid := dErrors.New(dErrors.CodeUnauthenticated, "invalid email or password")

	account, err := s.accounts.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLogin("invalid_credentials")
			s.recordFailure(ctx, creds.Email)
			return nil, invalid
		}
		s.metrics.IncrementLogin("error")
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to load account")
	}
	if err := secrets.Verify(creds.Password, account.PasswordHash); err != nil {
		if errors.Is(err, secrets.ErrMismatch) {
			s.metrics.IncrementLogin("invalid_credentials")
			s.logger.WarnContext(ctx, "login failed", "user_id", account.UserID)
			s.recordFailure(ctx, creds.Email)
			return nil, invalid
		}
		s.metrics.IncrementLogin("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}

	result, err := s.open(account.Identity(), "Logged in successfully")
	if err != nil {
		s.metrics.IncrementLogin("error")
		return nil, err
	}
	s.metrics.IncrementLogin("success")
	if s.loginGuard != nil {
		if err := s.loginGuard.Clear(ctx, creds.Email); err != nil {
			s.logger.WarnContext(ctx, "failed to clear login failures", "error", err)
		}
	}
	s.logAudit(ctx, audit.ActionUserLoggedIn,
		"user_id", account.UserID,
		"email", account.Email,
		"device", device.ParseUserAgent(requestcontext.UserAgent(ctx)),
	)
	s.notify(models.Change{Kind: models.ChangeLoggedIn, Identity: result.Identity})
	return result, nil
}

// checkGuard only passes rate_limited through. A guard that cannot reach its
// store lets the attempt proceed.
func (s *Service) checkGuard(ctx context.Context, email string) error {
	if s.loginGuard == nil {
		return nil
	}
	err := s.loginGuard.Check(ctx, email)
	if err == nil {
		return nil
	}
	if dErrors.HasCode(err, dErrors.CodeRateLimited) {
		return err
	}
	s.logger.WarnContext(ctx, "login guard unavailable", "error", err)
	return nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.loginGuard == nil {
		return
	}
	locked, err := s.loginGuard.RecordFailure(ctx, email)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record login failure", "error", err)
		return
	}
	if locked {
		s.logAudit(ctx, audit.ActionUserLockedOut, "email", email)
	}
}

func (s *Service) open(identity domain.Identity, message string) (*models.Result, error) {
	issued, err := s.tokens.GenerateToken(identity, s.sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}
	return &models.Result{
		Identity:  identity,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Message:   message,
	}, nil
}

// Current resolves a session token to its identity. Expired, malformed and
// revoked tokens are unauthenticated.
func (s *Service) Current(ctx context.Context, token string) (domain.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "session.Current")
	defer span.End()

	claims, err := s.validate(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.Identity(), nil
}

func (s *Service) validate(ctx context.Context, token string) (*jwttoken.Claims, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveValidate(time.Since(start)) }()

	if token == "" {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "please log in")
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to check session")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "session has ended, please log in again")
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "session.Logout")
	defer span.End()

	claims, err := s.validate(ctx, token)
	if err != nil {
		return err
	}
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			if err := s.revocations.RevokeToken(ctx, claims.ID, remaining); err != nil {
				return dErrors.Wrap(err, dErrors.CodeStorage, "failed to end session")
			}
		}
	}
	identity := claims.Identity()
	s.metrics.IncrementLogouts()
	s.logAudit(ctx, audit.ActionUserLoggedOut, "user_id", identity.UserID, "email", identity.Email)
	s.notify(models.Change{Kind: models.ChangeLoggedOut, Identity: identity})
	return nil
}

// Subscribe registers fn for session changes. fn runs synchronously on the
// goroutine that caused the change. The returned func unsubscribes.
func (s *Service) Subscribe(fn func(models.Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Service) notify(change models.Change) {
	s.subMu.RLock()
	fns := make([]func(models.Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (s *Service) logAudit(ctx context.Context, action audit.Action, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(action), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	userID := attrs.ExtractString(attributes, "user_id")
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    domain.UserID(userID),
		Email:     attrs.ExtractString(attributes, "email"),
		Action:    action,
		Subject:   userID,
		RequestID: requestcontext.RequestID(ctx),
		Device:    attrs.ExtractString(attributes, "device"),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}
