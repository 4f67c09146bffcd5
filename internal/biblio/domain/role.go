package domain

import "time"

// Role names.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Role groups permissions and optionally belongs to a company.
type Role struct {
	ID          string
	Name        string
	CompanyID   *string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

