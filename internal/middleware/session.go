package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const sessionIDKey = "sid"

type sessionCtxKey struct{}

// SessionIDFromContext returns the cart session id attached by Session.
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionCtxKey{}).(string)
	return sid
}

// WithSessionID returns a copy of ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// Session gives every request a stable session id kept in a signed cookie.
// A missing or tampered cookie starts a new session.
func Session(store sessions.Store, cookieName string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get returns a fresh session alongside a decode error.
			session, err := store.Get(r, cookieName)
			if err != nil {
				logger.Debug().Err(err).Msg("discarding unreadable session cookie")
			}

			sid, _ := session.Values[sessionIDKey].(string)
			if _, parseErr := uuid.Parse(sid); parseErr != nil {
				sid = uuid.NewString()
				session.Values[sessionIDKey] = sid
				if err := session.Save(r, w); err != nil {
					logger.Error().Err(err).Msg("failed to save session")
					writeError(w, r, http.StatusInternalServerError, "internal server error")
					return
				}
				logger.Debug().Str("session_id", sid).Msg("session started")
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sid)))
		})
	}
}

// NewCookieStore creates the signed cookie store used by Session.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
