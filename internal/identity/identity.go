// Package identity carries the authenticated customer through a request's
// context. Every booking, appointment and notification operation is scoped
// by the identity found here.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUnauthenticated = errors.New("no authenticated user")

type contextKey struct{}

type User struct {
	ID    uuid.UUID
	Email string
	Role  string
}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(contextKey{}).(User)
	if !ok || u.ID == uuid.Nil {
		return User{}, false
	}
	return u, true
}

// Require is CurrentUser for operations that cannot proceed anonymously.
func Require(ctx context.Context) (User, error) {
	u, ok := CurrentUser(ctx)
	if !ok {
		return User{}, ErrUnauthenticated
	}
	return u, nil
}

// Detach returns a background context that keeps ctx's identity, for work
// that must outlive the request that started it.
func Detach(ctx context.Context) context.Context {
	if u, ok := CurrentUser(ctx); ok {
		return WithUser(context.Background(), u)
	}
	return context.Background()
}
