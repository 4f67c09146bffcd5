package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/stretchr/testify/require"
)

func TestPermissionVocabulary(t *testing.T) {
	all := domain.AllPermissions()
	require.Len(t, all, 10)
	for _, p := range all {
		require.True(t, p.Valid(), p)
	}
	require.False(t, domain.Permission("DROP_TABLES").Valid())

	// Mutating the returned slice must not leak into the vocabulary.
	all[0] = "NOPE"
	require.Equal(t, domain.PermGetUser, domain.AllPermissions()[0])
}

func TestSessionDataHasAll(t *testing.T) {
	s := domain.SessionData{Permissions: []domain.Permission{domain.PermGetUser}}

	require.True(t, s.HasAll(nil))
	require.True(t, s.HasAll([]domain.Permission{domain.PermGetUser}))
	require.False(t, s.HasAll([]domain.Permission{domain.PermGetUser, domain.PermListUsers}))
}

func TestNewSessionData(t *testing.T) {
	t.Run("user with role", func(t *testing.T) {
		u := &domain.User{
			ID:    "u1",
			Email: "charlotte.buisson@biblio.com",
			Role:  &domain.Role{Name: domain.RoleAdmin, Permissions: domain.AllPermissions()},
		}
		s := domain.NewSessionData(u)
		require.Equal(t, "u1", s.ID)
		require.Equal(t, domain.RoleAdmin, s.Role)
		require.Len(t, s.Permissions, 10)
	})

	t.Run("user without role", func(t *testing.T) {
		s := domain.NewSessionData(&domain.User{ID: "u2", Email: "alice@x.com"})
		raw, err := json.Marshal(s)
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"u2","email":"alice@x.com","permissions":[]}`, string(raw))
	})
}
