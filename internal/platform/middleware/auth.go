package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"eventgate/internal/role"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/httputil"
	"eventgate/pkg/requestcontext"
)

// SessionValidator resolves a bearer token to the identity it was issued for.
type SessionValidator interface {
	Current(ctx context.Context, token string) (domain.Identity, error)
}

// CapabilityResolver answers what an identity may do.
type CapabilityResolver interface {
	CapabilitiesFor(identity domain.Identity) role.Capabilities
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if errDesc == "" {
		_, _ = w.Write(fmt.Appendf(nil, `{"error":%q}`, errCode))
		return
	}
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// BearerToken returns the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// RequireAuth admits requests carrying a live session token and stores the
// caller's identity and token in the context.
func RequireAuth(sessions SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := BearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, string(dErrors.CodeUnauthenticated), "Missing or invalid Authorization header")
				return
			}

			identity, err := sessions.Current(ctx, token)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeUnauthenticated) {
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"error", err,
						"request_id", requestID,
					)
				} else {
					logger.ErrorContext(ctx, "failed to validate session",
						"error", err,
						"request_id", requestID,
					)
				}
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithIdentity(ctx, identity)
			ctx = requestcontext.WithSessionToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability admits authenticated callers whose role passes allowed.
// It must run after RequireAuth.
func RequireCapability(roles CapabilityResolver, allowed func(role.Capabilities) bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity, ok := requestcontext.Identity(ctx)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, string(dErrors.CodeUnauthenticated), "Missing or invalid Authorization header")
				return
			}
			if !allowed(roles.CapabilitiesFor(identity)) {
				logger.WarnContext(ctx, "forbidden - missing capability",
					"user_id", identity.UserID,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, string(dErrors.CodeUnauthorized), "Your role does not allow this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CanCreate and CanJoin select a capability for RequireCapability.
func CanCreate(c role.Capabilities) bool { return c.CanCreate }

func CanJoin(c role.Capabilities) bool { return c.CanJoin }
