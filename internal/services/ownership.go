package services

// AuthorizeOwner allows the call only when identity is the resource owner.
func AuthorizeOwner(identity Identity, ownerID uint) error {
	if identity.IsAnonymous() {
		return ErrUnauthorized
	}
	if identity.User.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
