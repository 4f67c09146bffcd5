package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/cache"
	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/internal/biblio/store"
	"github.com/aussiebroadwan/biblio/pkg/cryptox"
	"github.com/aussiebroadwan/biblio/pkg/idx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
)

// UsersService manages user accounts. When Cache is set, changes that affect
// a user's identity or grants revoke their sessions.
type UsersService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Cache  cache.Cache
}

type CreateUserInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	CompanyID *string
	RoleID    *string
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Password  *string
	CompanyID *string
	RoleID    *string
}

func (s *UsersService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, newError(ErrNotFound, msgUserNotFound)
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *UsersService) List(ctx context.Context, page Page) ([]domain.User, error) {
	page = page.normalized()
	return s.Store.Users().ListUsers(ctx, page.Limit, page.Offset)
}

func (s *UsersService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	hash, err := hashPassword(s.Hasher, in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: hash,
		CompanyID:    in.CompanyID,
		RoleID:       in.RoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkReferences(ctx, tx, user.CompanyID, user.RoleID); err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyExists):
				return newError(ErrConflict, "User already exists")
			case errors.Is(err, store.ErrConstraint):
				return newError(ErrBadRequest, msgCompanyNotExists)
			}
			return err
		}
		created, err = tx.Users().GetUserByID(ctx, user.ID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created", slog.String("user_id", created.ID))
	return created, nil
}

func (s *UsersService) Update(ctx context.Context, id string, in UpdateUserInput) (domain.User, error) {
	var hash string
	if in.Password != nil {
		var err error
		if hash, err = hashPassword(s.Hasher, *in.Password); err != nil {
			return domain.User{}, err
		}
	}

	var (
		updated domain.User
		revoke  bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrNotFound, msgUserNotFound)
			}
			return err
		}

		if in.Firstname != nil {
			u.Firstname = *in.Firstname
		}
		if in.Lastname != nil {
			u.Lastname = *in.Lastname
		}
		if in.Email != nil && *in.Email != u.Email {
			u.Email = *in.Email
			revoke = true
		}
		if in.Password != nil {
			u.PasswordHash = hash
			revoke = true
		}
		if in.CompanyID != nil {
			u.CompanyID = in.CompanyID
		}
		if in.RoleID != nil && !sameRef(u.RoleID, in.RoleID) {
			u.RoleID = in.RoleID
			revoke = true
		}
		u.UpdatedAt = time.Now().UTC()

		if err := checkReferences(ctx, tx, in.CompanyID, in.RoleID); err != nil {
			return err
		}
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyExists):
				return newError(ErrConflict, "Email is already used")
			case errors.Is(err, store.ErrConstraint):
				return newError(ErrBadRequest, msgCompanyNotExists)
			}
			return err
		}
		updated, err = tx.Users().GetUserByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	if revoke {
		s.revokeSessions(ctx, id)
	}
	slogx.FromContext(ctx).Info("user updated", slog.String("user_id", id))
	return updated, nil
}

// Delete removes a user and returns the record as it was.
func (s *UsersService) Delete(ctx context.Context, id string) (domain.User, error) {
	var deleted domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrNotFound, msgUserNotFound)
			}
			return err
		}
		if err := tx.Users().DeleteUser(ctx, id); err != nil {
			return err
		}
		deleted = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	s.revokeSessions(ctx, id)
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id))
	return deleted, nil
}

// revokeSessions runs after the write has committed, so a cache failure is
// logged rather than returned.
func (s *UsersService) revokeSessions(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, cache.UserDataKey(id), cache.RefreshTokenIDKey(id)); err != nil {
		slogx.FromContext(ctx).Warn("revoke sessions failed", slog.String("user_id", id), slog.Any("error", err))
	}
}

func checkReferences(ctx context.Context, tx store.Tx, companyID, roleID *string) error {
	if companyID != nil {
		if _, err := tx.Companies().GetCompanyByID(ctx, *companyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrBadRequest, msgCompanyNotExists)
			}
			return err
		}
	}
	if roleID != nil {
		if _, err := tx.Roles().GetRoleByID(ctx, *roleID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrBadRequest, msgRoleNotExists)
			}
			return err
		}
	}
	return nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
