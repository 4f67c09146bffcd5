package domain

import "slices"

// Permission is an atomic authorization tag a route can require.
type Permission string

const (
	PermGetUser    Permission = "GET_USER"
	PermListUsers  Permission = "LIST_USERS"
	PermCreateUser Permission = "CREATE_USER"
	PermUpdateUser Permission = "UPDATE_USER"
	PermDeleteUser Permission = "DELETE_USER"

	PermGetCompany    Permission = "GET_COMPANY"
	PermListCompanies Permission = "LIST_COMPANIES"
	PermCreateCompany Permission = "CREATE_COMPANY"
	PermUpdateCompany Permission = "UPDATE_COMPANY"
	PermDeleteCompany Permission = "DELETE_COMPANY"
)

var allPermissions = []Permission{
	PermGetUser, PermListUsers, PermCreateUser, PermUpdateUser, PermDeleteUser,
	PermGetCompany, PermListCompanies, PermCreateCompany, PermUpdateCompany, PermDeleteCompany,
}

// AllPermissions returns the full permission vocabulary.
func AllPermissions() []Permission {
	return slices.Clone(allPermissions)
}

// Valid reports whether p is part of the vocabulary.
func (p Permission) Valid() bool {
	return slices.Contains(allPermissions, p)
}

func (p Permission) String() string { return string(p) }
