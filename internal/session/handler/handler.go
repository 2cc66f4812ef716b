package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	eventmodels "eventgate/internal/event/models"
	"eventgate/internal/platform/middleware"
	"eventgate/internal/role"
	"eventgate/internal/session/models"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/httputil"
	"eventgate/pkg/requestcontext"
)

// Service defines the session operations the handler delegates to.
type Service interface {
	SignUp(ctx context.Context, creds models.Credentials) (*models.Result, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Result, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (domain.Identity, error)
}

// RoleDescriber reports the role view of an identity.
type RoleDescriber interface {
	Describe(identity domain.Identity) role.Profile
}

// EventStats supplies the directory counts shown on the profile view.
type EventStats interface {
	ListEvents(ctx context.Context) ([]*eventmodels.Event, error)
	MyEvents(ctx context.Context, userID domain.UserID) ([]*eventmodels.Event, error)
}

// Handler serves sign-up, login, logout and the current-session view.
type Handler struct {
	sessions Service
	roles    RoleDescriber
	stats    EventStats
	logger   *slog.Logger
}

func New(sessions Service, roles RoleDescriber, stats EventStats, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, roles: roles, stats: stats, logger: logger}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.sessions, h.logger))
		r.Post("/auth/logout", h.handleLogout)
		r.Get("/auth/me", h.handleMe)
	})
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	h.openSession(w, r, http.StatusCreated, h.sessions.SignUp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.openSession(w, r, http.StatusOK, h.sessions.Login)
}

func (h *Handler) openSession(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	open func(context.Context, models.Credentials) (*models.Result, error),
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid credentials request",
			"request_id", requestID,
			"path", r.URL.Path,
		)
		httputil.WriteError(w, err)
		return
	}

	res, err := open(ctx, models.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if code, _ := dErrors.CodeOf(err); code == dErrors.CodeStorage || code == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to open session",
				"request_id", requestID,
				"path", r.URL.Path,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, status, SessionResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
		User:      h.describe(res.Identity),
		Message:   res.Message,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.sessions.Logout(ctx, requestcontext.SessionToken(ctx)); err != nil {
		h.logger.WarnContext(ctx, "logout failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// handleMe reports the caller's profile. Stats are left out when the
// directory cannot be read; the identity part never depends on it.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requestcontext.Identity(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	resp := MeResponse{UserResponse: h.describe(identity)}
	stats, err := h.profileStats(ctx, identity.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "profile stats unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		resp.Stats = stats
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) profileStats(ctx context.Context, userID domain.UserID) (*ProfileStats, error) {
	all, err := h.stats.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	mine, err := h.stats.MyEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileStats{TotalEvents: len(all), MyEventsCount: len(mine)}, nil
}

func (h *Handler) describe(identity domain.Identity) UserResponse {
	profile := h.roles.Describe(identity)
	return UserResponse{
		UserID:       identity.UserID,
		Email:        identity.Email,
		Role:         profile.Role.String(),
		Capabilities: profile.Capabilities,
	}
}
