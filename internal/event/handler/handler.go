package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventgate/internal/event/models"
	"eventgate/internal/platform/middleware"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/httputil"
	"eventgate/pkg/requestcontext"
)

// Service defines the event operations the handler delegates to.
type Service interface {
	ListEvents(ctx context.Context) ([]*models.Event, error)
	MyEvents(ctx context.Context, userID domain.UserID) ([]*models.Event, error)
	CreateEvent(ctx context.Context, identity domain.Identity, draft models.Draft) (*models.Event, error)
	JoinEvent(ctx context.Context, identity domain.Identity, eventID domain.EventID) error
	LeaveEvent(ctx context.Context, identity domain.Identity, eventID domain.EventID) error
}

// Handler serves the event directory endpoints.
type Handler struct {
	events   Service
	sessions middleware.SessionValidator
	roles    middleware.CapabilityResolver
	logger   *slog.Logger
}

func New(events Service, sessions middleware.SessionValidator, roles middleware.CapabilityResolver, logger *slog.Logger) *Handler {
	return &Handler{
		events:   events,
		sessions: sessions,
		roles:    roles,
		logger:   logger,
	}
}

// Register registers the event routes with the chi router. Every route
// requires a session.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.sessions, h.logger))

		r.Get("/events", h.handleListEvents)
		r.Get("/me/events", h.handleMyEvents)
		r.With(middleware.RequireCapability(h.roles, middleware.CanCreate, h.logger)).
			Post("/events", h.handleCreateEvent)
		r.With(middleware.RequireCapability(h.roles, middleware.CanJoin, h.logger)).
			Post("/events/{id}/attendees", h.handleJoinEvent)
		r.Delete("/events/{id}/attendees", h.handleLeaveEvent)
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	events, err := h.events.ListEvents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list events",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(events, identity.UserID))
}

func (h *Handler) handleMyEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	events, err := h.events.MyEvents(ctx, identity.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list my events",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", identity.UserID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(events, identity.UserID))
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid create event request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	ev, err := h.events.CreateEvent(ctx, identity, req.Draft())
	if err != nil {
		h.logFailure(ctx, "failed to create event", err, "user_id", identity.UserID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, EventCreatedResponse{
		Event:   toEventResponse(ev, identity.UserID),
		Message: "Event created successfully",
	})
}

func (h *Handler) handleJoinEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	eventID, err := domain.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.events.JoinEvent(ctx, identity, eventID); err != nil {
		h.logFailure(ctx, "failed to join event", err, "user_id", identity.UserID, "event_id", eventID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Joined event successfully"})
}

func (h *Handler) handleLeaveEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	eventID, err := domain.ParseEventID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.events.LeaveEvent(ctx, identity, eventID); err != nil {
		h.logFailure(ctx, "failed to leave event", err, "user_id", identity.UserID, "event_id", eventID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Left event successfully"})
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := requestcontext.Identity(r.Context())
	if !ok {
		// Only reachable when RequireAuth is missing from the chain.
		h.logger.ErrorContext(r.Context(), "identity missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return domain.Identity{}, false
	}
	return identity, true
}

// logFailure logs client mistakes at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	code, _ := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeStorage, dErrors.CodeInternal, dErrors.CodeTimeout, "":
		h.logger.ErrorContext(ctx, msg, args...)
	default:
		h.logger.WarnContext(ctx, msg, args...)
	}
}
