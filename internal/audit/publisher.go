package audit

import (
	"context"
	"log/slog"
	"time"

	"eventgate/pkg/domain"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. When an
// outbox channel is attached, events are also handed to a Worker for
// forwarding without blocking the caller.
type Publisher struct {
	store  Store
	outbox chan<- Event
	logger *slog.Logger
}

type PublisherOption func(*Publisher)

// WithOutbox forwards every appended event to ch. A full channel drops the
// forward, never the append.
func WithOutbox(ch chan<- Event) PublisherOption {
	return func(p *Publisher) { p.outbox = ch }
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, base); err != nil {
		return err
	}
	if p.outbox != nil {
		select {
		case p.outbox <- base:
		default:
			p.logger.WarnContext(ctx, "audit outbox full, dropping forward",
				"action", base.Action,
				"user_id", base.UserID,
			)
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, userID domain.UserID) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}
