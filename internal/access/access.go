// Package access models callers and the capability checks made against them.
package access

import (
	"context"
	"slices"
)

// CanMarkReturned is the capability librarians hold to manage loans.
const CanMarkReturned = "catalog.can_mark_returned"

// Principal is the identity attached to a request.
type Principal struct {
	UserID       string
	Capabilities []string
}

// Anonymous is the principal for requests without credentials.
var Anonymous = Principal{}

func (p Principal) IsAnonymous() bool {
	return p.UserID == ""
}

// Authorizer answers whether a caller is known and what it may do.
type Authorizer interface {
	IsAuthenticated(ctx context.Context, p Principal) bool
	HasCapability(ctx context.Context, p Principal, capability string) bool
}

// TokenAuthorizer trusts the capabilities carried by the principal itself,
// which were copied from a verified access token.
type TokenAuthorizer struct{}

func NewTokenAuthorizer() TokenAuthorizer {
	return TokenAuthorizer{}
}

func (TokenAuthorizer) IsAuthenticated(_ context.Context, p Principal) bool {
	return !p.IsAnonymous()
}

func (a TokenAuthorizer) HasCapability(ctx context.Context, p Principal, capability string) bool {
	if !a.IsAuthenticated(ctx, p) {
		return false
	}
	return slices.Contains(p.Capabilities, capability)
}

// AuthorizerFunc adapts a capability predicate to an Authorizer.
// Authentication is derived from the principal.
type AuthorizerFunc func(ctx context.Context, p Principal, capability string) bool

func (f AuthorizerFunc) IsAuthenticated(_ context.Context, p Principal) bool {
	return !p.IsAnonymous()
}

func (f AuthorizerFunc) HasCapability(ctx context.Context, p Principal, capability string) bool {
	return f(ctx, p, capability)
}
