// Package authctx propagates the authenticated principal through request
// contexts. The gates store exactly one Principal per request under a
// single unexported key; downstream handlers read it back with Get or
// MustGet. This context slot is the only channel by which authorization
// results cross into business logic.
package authctx

import (
	"context"
	"errors"

	"github.com/busline/gateway/auth"
)

// Principal is the authenticated identity attached to a request: the
// verified claims plus where the credential came from. The source matters
// to logout, which is only meaningful for cookie-delivered credentials.
type Principal struct {
	Claims *auth.Claims
	Source auth.Source
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var principalKey = contextKey{}

// ErrNoPrincipal is returned when no principal is found in the context.
var ErrNoPrincipal = errors.New("authctx: no principal in context")

// Set stores the principal in the context. Called by the gates exactly
// once per authenticated request; the principal is never mutated after.
func Set(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Get retrieves the principal from the context.
func Get(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// GetOrError retrieves the principal, returning ErrNoPrincipal if absent.
func GetOrError(ctx context.Context) (*Principal, error) {
	p, ok := Get(ctx)
	if !ok {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// MustGet retrieves the principal, panicking if it is missing. Use in
// handlers that are only reachable behind an auth gate.
func MustGet(ctx context.Context) *Principal {
	p, ok := Get(ctx)
	if !ok {
		panic("authctx: principal not found in context")
	}
	return p
}
