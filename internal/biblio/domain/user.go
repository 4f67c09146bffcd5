package domain

import "time"

type User struct {
	ID           string
	Firstname    string
	Lastname     string
	Email        string
	PasswordHash string  // bcrypt or argon2id encoded, never serialized
	CompanyID    *string // Foreign key to companies (nullable)
	RoleID       *string // Foreign key to roles (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Loaded relations, nil when the user has none.
	Company *Company
	Role    *Role
}

// RoleName returns the user's role name, or "" without a role.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// Permissions returns the permissions granted through the user's role.
func (u *User) Permissions() []Permission {
	if u.Role == nil {
		return nil
	}
	return u.Role.Permissions
}
