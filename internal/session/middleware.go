package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olachris/backend/internal/httpx"
	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/store"
	"github.com/olachris/backend/internal/token"
)

// UserResolver loads the user a session credential points at, with the
// password hash excluded. Satisfied by *store.Store.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*store.User, error)
}

// Middleware authenticates requests from the session cookie.
type Middleware struct {
	codec   *token.Codec
	cookies *Manager
	users   UserResolver
	logger  *slog.Logger
}

// NewMiddleware creates the session middleware.
func NewMiddleware(codec *token.Codec, cookies *Manager, users UserResolver, log *slog.Logger) *Middleware {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Middleware{codec: codec, cookies: cookies, users: users, logger: log}
}

// Authenticate verifies the session cookie and attaches the resolved user to
// the request context.
//
//   - no cookie: 401, nothing to clear;
//   - invalid or expired credential: the stale cookie is cleared, 403;
//   - user no longer exists: the cookie is cleared, 404;
//   - storage outage during resolution: 503, cookie left alone so the
//     session survives the outage.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := m.cookies.Read(r)
		if err != nil {
			httpx.Error(w, httpx.NewHTTPError(http.StatusUnauthorized,
				"You are not logged in! Please log in to get access."))
			return
		}

		claims, err := m.codec.Verify(raw)
		if err != nil {
			m.cookies.Clear(w)
			httpx.Error(w, httpx.NewHTTPError(http.StatusForbidden,
				"Invalid or expired session. Please log in again."))
			return
		}

		user, err := m.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrUserNotFound):
				m.cookies.Clear(w)
				httpx.Error(w, httpx.NewHTTPError(http.StatusNotFound,
					"The user belonging to this token no longer exists."))
			default:
				m.logger.Error("session user resolution failed",
					logger.Error(err),
					logger.UserID(claims.UserID),
					logger.Component("session"),
				)
				httpx.Error(w, httpx.NewHTTPError(http.StatusServiceUnavailable,
					"Service temporarily unavailable. Please try again."))
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin gates a route to administrators. It fails closed: no user on
// the context is a 403, not a pass-through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			httpx.Error(w, httpx.NewHTTPError(http.StatusForbidden,
				"You do not have permission to perform this action."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
