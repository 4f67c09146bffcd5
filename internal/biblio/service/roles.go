package service

import (
	"context"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/internal/biblio/store"
)

type RolesService struct {
	Store store.Store
}

// List returns every role with its permissions, for picking a roleId.
func (s *RolesService) List(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListRoles(ctx)
}
