package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"eventgate/internal/audit"
	"eventgate/internal/event/models"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/sentinel"
	"eventgate/pkg/requestcontext"
)

// CreateEvent adds an event owned by the caller. Only identities with the
// create capability may call it; every field must be non-empty once trimmed.
func (s *Service) CreateEvent(ctx context.Context, identity domain.Identity, draft models.Draft) (*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "event.CreateEvent")
	defer span.End()

	if identity.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "sign in to create events")
	}
	if !s.roles.CapabilitiesFor(identity).CanCreate {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "only organizers can create events")
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	rec := &models.Record{
		Title:     draft.Title,
		Date:      draft.Date,
		Location:  draft.Location,
		CreatedBy: identity.UserID,
		CreatedAt: requestcontext.Now(ctx),
	}
	id, err := s.store.InsertEvent(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert event failed")
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to create event")
	}
	span.SetAttributes(attribute.String("event.id", id.String()))

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	ev := s.find(id)
	if ev == nil {
		return nil, dErrors.New(dErrors.CodeStorage, "created event missing after reload")
	}

	s.metrics.IncrementEventsCreated()
	s.logAudit(ctx, audit.ActionEventCreated,
		"user_id", identity.UserID,
		"event_id", id,
	)
	return ev.Clone(), nil
}

// JoinEvent adds the caller to an event's attendees. A snapshot that shows
// the caller as a member is confirmed with one reload before the join is
// refused; the store's uniqueness constraint is the final word.
func (s *Service) JoinEvent(ctx context.Context, identity domain.Identity, eventID domain.EventID) error {
	ctx, span := s.tracer.Start(ctx, "event.JoinEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", eventID.String()))

	if identity.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "sign in to join events")
	}
	if !s.roles.CapabilitiesFor(identity).CanJoin {
		return dErrors.New(dErrors.CodeUnauthorized, "only participants can join events")
	}
	ev, err := s.lookup(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.HasAttendee(identity.UserID) {
		// The membership may have been removed through another instance.
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		if ev = s.find(eventID); ev == nil {
			return dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		if ev.HasAttendee(identity.UserID) {
			s.metrics.IncrementMembership("already_joined")
			return dErrors.New(dErrors.CodeAlreadyJoined, "you have already joined this event")
		}
	}

	err = s.store.InsertMembership(ctx, &models.Membership{
		EventID:  eventID,
		UserID:   identity.UserID,
		JoinedAt: requestcontext.Now(ctx),
	})
	switch {
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		s.metrics.IncrementMembership("already_joined")
		// The snapshot was stale; bring it in line but report the conflict
		// regardless of the reload outcome.
		if rerr := s.Refresh(ctx); rerr != nil {
			s.logger.WarnContext(ctx, "reload after duplicate join failed", "error", rerr)
		}
		return dErrors.New(dErrors.CodeAlreadyJoined, "you have already joined this event")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "event not found")
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert membership failed")
		return dErrors.Wrap(err, dErrors.CodeStorage, "failed to join event")
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.metrics.IncrementMembership("joined")
	s.logAudit(ctx, audit.ActionEventJoined,
		"user_id", identity.UserID,
		"event_id", eventID,
	)
	return nil
}

// LeaveEvent removes the caller from an event's attendees. Leaving an event
// the caller never joined succeeds without writing anything.
func (s *Service) LeaveEvent(ctx context.Context, identity domain.Identity, eventID domain.EventID) error {
	ctx, span := s.tracer.Start(ctx, "event.LeaveEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", eventID.String()))

	if identity.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "sign in to leave events")
	}
	ev, err := s.lookup(ctx, eventID)
	if err != nil {
		return err
	}
	if !ev.HasAttendee(identity.UserID) {
		// The membership may have been written through another instance.
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		if ev = s.find(eventID); ev == nil || !ev.HasAttendee(identity.UserID) {
			s.metrics.IncrementMembership("noop")
			return nil
		}
	}

	if err := s.store.DeleteMembership(ctx, eventID, identity.UserID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete membership failed")
		return dErrors.Wrap(err, dErrors.CodeStorage, "failed to leave event")
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.metrics.IncrementMembership("left")
	s.logAudit(ctx, audit.ActionEventLeft,
		"user_id", identity.UserID,
		"event_id", eventID,
	)
	return nil
}
