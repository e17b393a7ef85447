package services

import (
	"github.com/princeprakhar/bookmind/internal/models"
)

type IdentityKind int

const (
	Anonymous IdentityKind = iota
	Authenticated
)

// Identity is who is making the request. Resolution never fails: every
// problem with the token or the user collapses into Anonymous.
type Identity struct {
	Kind IdentityKind
	User *models.User
	// Reason explains an anonymous result, for logs only.
	Reason string
}

func AnonymousIdentity(reason string) Identity {
	return Identity{Kind: Anonymous, Reason: reason}
}

func UserIdentity(user *models.User) Identity {
	return Identity{Kind: Authenticated, User: user}
}

func (i Identity) IsAnonymous() bool {
	return i.Kind != Authenticated || i.User == nil
}

// UserID is zero for anonymous callers.
func (i Identity) UserID() uint {
	if i.IsAnonymous() {
		return 0
	}
	return i.User.ID
}

type TokenVerifier interface {
	Verify(token string) (uint, bool)
}

type UserLookup interface {
	GetUserByID(userID uint) (*models.User, error)
}

type IdentityResolver struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewIdentityResolver(tokens TokenVerifier, users UserLookup) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

func (r *IdentityResolver) Resolve(token string) Identity {
	if token == "" {
		return AnonymousIdentity("no token")
	}

	userID, ok := r.tokens.Verify(token)
	if !ok {
		return AnonymousIdentity("invalid token")
	}

	user, err := r.users.GetUserByID(userID)
	if err != nil || user == nil {
		return AnonymousIdentity("unknown user")
	}
	return UserIdentity(user)
}
