package audit

import (
	"context"
	"log/slog"
)

// Sink receives forwarded audit events, e.g. a Kafka topic.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker drains the publisher outbox into a sink. A failed publish is logged
// and the worker moves on; the event is already in the store.
type Worker struct {
	sink    Sink
	inbox   <-chan Event
	logger  *slog.Logger
	breaker *CircuitBreaker
	dropped int
}

type WorkerOption func(*Worker)

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *CircuitBreaker) WorkerOption {
	return func(w *Worker) {
		w.breaker = b
	}
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Worker{
		sink:    sink,
		inbox:   inbox,
		logger:  logger,
		breaker: NewCircuitBreaker(5, 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled or the inbox is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.forward(ctx, event)
		}
	}
}

func (w *Worker) forward(ctx context.Context, event Event) {
	if !w.breaker.Allow() {
		w.dropped++
		return
	}
	if err := w.sink.Publish(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to forward audit event",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
		if w.breaker.RecordFailure() {
			w.logger.WarnContext(ctx, "audit sink circuit opened; forwarding paused")
		}
		return
	}
	if w.dropped > 0 {
		w.logger.InfoContext(ctx, "audit sink recovered", "dropped", w.dropped)
		w.dropped = 0
	}
	w.breaker.RecordSuccess()
}
