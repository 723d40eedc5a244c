// Package authctx propagates the request's authenticated identity through
// context.Context. The identity is request-scoped: the filter stores it on
// the request's context and it dies with the request. Nothing here is global.
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/todoapi/auth/identity"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is attached to the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set stores the authenticated identity in the context.
func Set(ctx context.Context, id *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Get retrieves the authenticated identity from the context.
func Get(ctx context.Context) (*identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*identity.Identity)
	return id, ok && id != nil
}

// GetOrError retrieves the identity, returning ErrNoIdentity for anonymous
// requests.
func GetOrError(ctx context.Context) (*identity.Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}
	return id, nil
}
