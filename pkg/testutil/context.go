package testutil

import (
	"net/http"

	"eventgate/pkg/domain"
	"eventgate/pkg/requestcontext"
)

// WithIdentity marks the request as authenticated, as RequireAuth would.
func WithIdentity(req *http.Request, identity domain.Identity) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), identity))
}

// WithSession is WithIdentity plus the bearer token the identity came from.
func WithSession(req *http.Request, identity domain.Identity, token string) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), identity)
	ctx = requestcontext.WithSessionToken(ctx, token)
	req.Header.Set("Authorization", "Bearer "+token)
	return req.WithContext(ctx)
}

// WithBearer sets the Authorization header only; the middleware under test
// resolves it.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
