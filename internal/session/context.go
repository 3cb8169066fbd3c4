package session

import (
	"context"

	"github.com/olachris/backend/internal/store"
)

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the authenticated user attached by the middleware.
func UserFromContext(ctx context.Context) (*store.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*store.User)
	return user, ok && user != nil
}
