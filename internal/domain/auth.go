package domain

// Identity is the authenticated caller, passed explicitly into workflow operations.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   UserRole
}

// IsZero reports whether no caller is attached.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// HasRole reports whether the caller holds one of the given roles.
func (i Identity) HasRole(roles ...UserRole) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}
