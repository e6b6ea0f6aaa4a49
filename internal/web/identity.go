package web

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ratifyhq/ratify/internal/apperror"
)

// Identity is the request-scoped caller identity. It is attached to the
// request context by RequireAuth and threaded explicitly into every handler;
// nothing reads ambient session state.
type Identity struct {
	UserID      string // internal id, owns ratings and friendships
	SpotifyID   string // external id, owns likes
	DisplayName string
	Token       *oauth2.Token
}

type identityKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFrom extracts the caller identity from the context.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(*Identity)
	return ident, ok
}

// RequireAuth resolves the session cookie into an Identity and rejects
// requests without one.
func RequireAuth(sessions SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessions.GetFromRequest(r)
			if session == nil {
				writeError(w, apperror.Unauthenticated("missing or expired session"))
				return
			}
			ident := &Identity{
				UserID:      session.UserID,
				SpotifyID:   session.SpotifyID,
				DisplayName: session.DisplayName,
				Token:       session.Token,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// identity returns the caller identity or an Unauthenticated error. Routes
// behind RequireAuth always have one; the error path guards direct use.
func identity(ctx context.Context) (*Identity, error) {
	ident, ok := IdentityFrom(ctx)
	if !ok {
		return nil, apperror.Unauthenticated("no caller identity")
	}
	return ident, nil
}
