package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConstraint is returned when a write would break a foreign key,
	// e.g. deleting a company that users still reference.
	ErrConstraint = errors.New("store: constraint violation")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories. Sub-repos hang off the Store so a Tx-scoped Store
// hands out Tx-scoped repos and nested transactions are impossible.
type Store interface {
	Users() Users
	Companies() Companies
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. The transaction is rolled
	// back if fn returns an error and committed otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user with its company, role and permissions.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user with its role and permissions. Used at
	// sign-in, so the password hash is populated.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns a page of users ordered by id (creation order).
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser overwrites the mutable columns and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes a user; ErrNotFound when there was none.
	DeleteUser(ctx context.Context, id string) error
}

type Companies interface {
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// ListCompanies returns a page of companies ordered by id.
	ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error)

	CreateCompany(ctx context.Context, c domain.Company) error
	UpdateCompany(ctx context.Context, c domain.Company) error

	// DeleteCompany fails with ErrConstraint while users or roles still
	// reference the company.
	DeleteCompany(ctx context.Context, id string) error
}

type Roles interface {
	// GetRoleByID fetches a role and its permissions.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// ListRoles returns all roles with their permissions.
	ListRoles(ctx context.Context) ([]domain.Role, error)
}
