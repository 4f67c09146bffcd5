package domain

import "slices"

// SessionData is the cache-resident snapshot of who a user is and what they
// may do. It is written on sign-in and refresh and read by the access guard.
type SessionData struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Role        string       `json:"role,omitempty"`
	Permissions []Permission `json:"permissions"`
}

// NewSessionData snapshots u.
func NewSessionData(u *User) SessionData {
	perms := slices.Clone(u.Permissions())
	if perms == nil {
		perms = []Permission{}
	}
	return SessionData{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.RoleName(),
		Permissions: perms,
	}
}

// HasAll reports whether every required permission is granted.
func (s SessionData) HasAll(required []Permission) bool {
	for _, p := range required {
		if !slices.Contains(s.Permissions, p) {
			return false
		}
	}
	return true
}
