package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"eventgate/internal/audit"
	"eventgate/internal/event/metrics"
	"eventgate/internal/event/models"
	"eventgate/internal/role"
	"eventgate/pkg/attrs"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/requestcontext"
)

// Store is the durable side of the directory. Implementations must enforce
// (event_id, user_id) uniqueness and report a duplicate membership as
// sentinel.ErrAlreadyUsed.
type Store interface {
	ListAllEvents(ctx context.Context) ([]*models.Record, error)
	ListAllMemberships(ctx context.Context) ([]*models.Membership, error)
	InsertEvent(ctx context.Context, rec *models.Record) (domain.EventID, error)
	InsertMembership(ctx context.Context, m *models.Membership) error
	DeleteMembership(ctx context.Context, eventID domain.EventID, userID domain.UserID) error
}

// CapabilityResolver answers what an identity may do.
type CapabilityResolver interface {
	CapabilitiesFor(identity domain.Identity) role.Capabilities
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service is the event membership store: a cached snapshot of every event
// with its attendee set, kept coherent with the Store by a full reload after
// each successful write.
type Service struct {
	store          Store
	roles          CapabilityResolver
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	snapshotTTL    time.Duration

	mu       sync.RWMutex
	events   []*models.Event // newest first, never mutated after swap
	byID     map[domain.EventID]*models.Event
	loadedAt time.Time
	// refreshGen numbers reloads in start order; appliedGen is the reload
	// the snapshot came from. An older reload never replaces a newer one.
	refreshGen uint64
	appliedGen uint64
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

// WithSnapshotTTL makes reads reload the snapshot once it is older than ttl.
// Zero keeps the snapshot until the next write.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.snapshotTTL = ttl
	}
}

// New constructs a Service. The snapshot is loaded lazily on first use; call
// Refresh to load it eagerly.
func New(store Store, roles CapabilityResolver, opts ...Option) *Service {
	s := &Service{
		store:  store,
		roles:  roles,
		logger: slog.Default(),
		tracer: otel.Tracer("eventgate/internal/event/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the snapshot with the store's current contents. Events
// and memberships are fetched concurrently. On any failure the previous
// snapshot is kept and a storage error is returned. No lock is held while
// the store is read; concurrent reloads race and the latest started wins.
func (s *Service) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "event.Refresh")
	defer span.End()

	s.mu.Lock()
	s.refreshGen++
	gen := s.refreshGen
	s.mu.Unlock()

	start := time.Now()
	var (
		records     []*models.Record
		memberships []*models.Membership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.ListAllEvents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		memberships, err = s.store.ListAllMemberships(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.ObserveRefresh(time.Since(start), 0, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		s.logger.ErrorContext(ctx, "failed to refresh event snapshot", "error", err)
		return dErrors.Wrap(err, dErrors.CodeStorage, "failed to load events")
	}

	events, byID := assemble(records, memberships)
	s.mu.Lock()
	outdated := gen < s.appliedGen
	if !outdated {
		s.events = events
		s.byID = byID
		s.loadedAt = time.Now()
		s.appliedGen = gen
	}
	s.mu.Unlock()
	span.SetAttributes(attribute.Bool("event.refresh_outdated", outdated))

	s.metrics.ObserveRefresh(time.Since(start), len(events), nil)
	span.SetAttributes(attribute.Int("event.count", len(events)))
	return nil
}

// assemble joins raw rows into events ordered newest first by the store's
// insertion sequence. Memberships of unknown events are dropped.
func assemble(records []*models.Record, memberships []*models.Membership) ([]*models.Event, map[domain.EventID]*models.Event) {
	byID := make(map[domain.EventID]*models.Event, len(records))
	events := make([]*models.Event, 0, len(records))
	for _, r := range records {
		ev := &models.Event{
			ID:        r.ID,
			Title:     r.Title,
			Date:      r.Date,
			Location:  r.Location,
			CreatedBy: r.CreatedBy,
			Attendees: models.NewAttendeeSet(),
			CreatedAt: r.CreatedAt,
			Seq:       r.Seq,
		}
		byID[ev.ID] = ev
		events = append(events, ev)
	}
	for _, m := range memberships {
		if ev, ok := byID[m.EventID]; ok {
			ev.Attendees.Add(m.UserID)
		}
	}
	slices.SortStableFunc(events, func(a, b *models.Event) int {
		return cmp.Compare(b.Seq, a.Seq)
	})
	return events, byID
}

// ListEvents returns every event, newest first.
func (s *Service) ListEvents(ctx context.Context) ([]*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.ListEvents")
	defer span.End()

	events, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Clone())
	}
	return out, nil
}

// MyEvents returns the events userID created or joined, newest first. The
// same predicate serves organizers and participants.
func (s *Service) MyEvents(ctx context.Context, userID domain.UserID) ([]*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.MyEvents")
	defer span.End()

	events, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Event, 0)
	for _, ev := range events {
		if ev.Involves(userID) {
			out = append(out, ev.Clone())
		}
	}
	return out, nil
}

// view returns the current snapshot, loading it on first use. An expired
// snapshot is reloaded; if that reload fails the stale snapshot is served.
func (s *Service) view(ctx context.Context) ([]*models.Event, error) {
	s.mu.RLock()
	events, loadedAt := s.events, s.loadedAt
	s.mu.RUnlock()

	if loadedAt.IsZero() {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	} else if s.snapshotTTL > 0 && time.Since(loadedAt) > s.snapshotTTL {
		if err := s.Refresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "serving stale event snapshot", "loaded_at", loadedAt)
			return events, nil
		}
	} else {
		return events, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events, nil
}

// lookup finds an event in the snapshot. A miss triggers one reload, since
// the event may have been created through another instance.
func (s *Service) lookup(ctx context.Context, id domain.EventID) (*models.Event, error) {
	if _, err := s.view(ctx); err != nil {
		return nil, err
	}
	if ev := s.find(id); ev != nil {
		return ev, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	if ev := s.find(id); ev != nil {
		return ev, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
}

func (s *Service) find(id domain.EventID) *models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
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
		Action:    action,
		Subject:   attrs.ExtractString(attributes, "event_id"),
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}
