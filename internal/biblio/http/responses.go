package http

import (
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
)

// CompanyResponse is the public projection of a company.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Postcode  string    `json:"postcode"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RoleResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Permissions []domain.Permission `json:"permissions"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        string           `json:"id"`
	Firstname string           `json:"firstname"`
	Lastname  string           `json:"lastname"`
	Email     string           `json:"email"`
	Company   *CompanyResponse `json:"company"`
	Role      *RoleResponse    `json:"role"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func newCompanyResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Postcode:  c.Postcode,
		City:      c.City,
		Country:   c.Country,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newUserResponse(u domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Company != nil {
		c := newCompanyResponse(*u.Company)
		resp.Company = &c
	}
	if u.Role != nil {
		r := newRoleResponse(*u.Role)
		resp.Role = &r
	}
	return resp
}

func newRoleResponse(r domain.Role) RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return RoleResponse{ID: r.ID, Name: r.Name, Permissions: perms}
}
