package services

import (
	"testing"
	"time"

	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityResolver(t *testing.T) {
	db := newTestDB(t)
	tokens := utils.NewTokenManager(testSecret, time.Hour)
	auth := NewAuthService(db, tokens, nil)
	resolver := NewIdentityResolver(tokens, auth)

	alice := createUser(t, db, "alice")
	ghost := createUser(t, db, "ghost")

	aliceToken, _, err := tokens.Issue(alice.ID)
	require.NoError(t, err)
	ghostToken, _, err := tokens.Issue(ghost.ID)
	require.NoError(t, err)
	require.NoError(t, db.Delete(ghost).Error)

	t.Run("NoToken", func(t *testing.T) {
		id := resolver.Resolve("")
		assert.True(t, id.IsAnonymous())
		assert.Equal(t, "no token", id.Reason)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		id := resolver.Resolve(aliceToken + "x")
		assert.True(t, id.IsAnonymous())
		assert.Equal(t, "invalid token", id.Reason)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		id := resolver.Resolve(ghostToken)
		assert.True(t, id.IsAnonymous())
		assert.Equal(t, "unknown user", id.Reason)
		assert.Zero(t, id.UserID())
	})

	t.Run("ValidToken", func(t *testing.T) {
		id := resolver.Resolve(aliceToken)
		require.False(t, id.IsAnonymous())
		assert.Equal(t, Authenticated, id.Kind)
		assert.Equal(t, alice.ID, id.UserID())
		assert.Equal(t, "alice", id.User.Username)
	})
}

func TestAuthorizeOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	assert.ErrorIs(t, AuthorizeOwner(AnonymousIdentity("no token"), alice.ID), ErrUnauthorized)
	assert.ErrorIs(t, AuthorizeOwner(UserIdentity(bob), alice.ID), ErrForbidden)
	assert.NoError(t, AuthorizeOwner(UserIdentity(alice), alice.ID))
}
