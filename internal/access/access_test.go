package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenAuthorizer(t *testing.T) {
	ctx := context.Background()
	authz := NewTokenAuthorizer()

	librarian := Principal{UserID: "u-1", Capabilities: []string{CanMarkReturned}}
	patron := Principal{UserID: "u-2"}

	t.Run("anonymous", func(t *testing.T) {
		assert.False(t, authz.IsAuthenticated(ctx, Anonymous))
		assert.False(t, authz.HasCapability(ctx, Anonymous, CanMarkReturned))
	})

	t.Run("patron without capability", func(t *testing.T) {
		assert.True(t, authz.IsAuthenticated(ctx, patron))
		assert.False(t, authz.HasCapability(ctx, patron, CanMarkReturned))
	})

	t.Run("librarian", func(t *testing.T) {
		assert.True(t, authz.HasCapability(ctx, librarian, CanMarkReturned))
		assert.False(t, authz.HasCapability(ctx, librarian, "catalog.other"))
	})

	t.Run("capabilities ignored when user id missing", func(t *testing.T) {
		forged := Principal{Capabilities: []string{CanMarkReturned}}
		assert.False(t, authz.HasCapability(ctx, forged, CanMarkReturned))
	})
}

func TestAuthorizerFunc(t *testing.T) {
	deny := AuthorizerFunc(func(context.Context, Principal, string) bool { return false })
	p := Principal{UserID: "u-1", Capabilities: []string{CanMarkReturned}}

	assert.True(t, deny.IsAuthenticated(context.Background(), p))
	assert.False(t, deny.HasCapability(context.Background(), p, CanMarkReturned))
}
