package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/biblio/internal/biblio/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func TestCompanies(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.companies.Create(ctx, CompanyInput{
		Name:     "Acme",
		Address:  "1 Road Runner Way",
		Postcode: "2000",
		City:     "Sydney",
		Country:  "Australia",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	t.Run("get", func(t *testing.T) {
		c, err := env.companies.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, "Acme", c.Name)

		_, err = env.companies.Get(ctx, "01J9ZS8Q3C4E0B6TDJ1WH2K7ZZ")
		require.ErrorIs(t, err, ErrNotFound)
		require.Equal(t, "Company not found", err.Error())
	})

	t.Run("list", func(t *testing.T) {
		all, err := env.companies.List(ctx, Page{})
		require.NoError(t, err)
		require.Len(t, all, 3)

		one, err := env.companies.List(ctx, Page{Limit: 1, Offset: 2})
		require.NoError(t, err)
		require.Len(t, one, 1)
		require.Equal(t, created.ID, one[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		c, err := env.companies.Update(ctx, created.ID, UpdateCompanyInput{City: ptr("Melbourne")})
		require.NoError(t, err)
		require.Equal(t, "Melbourne", c.City)
		require.Equal(t, "Acme", c.Name)

		_, err = env.companies.Update(ctx, "01J9ZS8Q3C4E0B6TDJ1WH2K7ZZ", UpdateCompanyInput{City: ptr("x")})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete with users conflicts", func(t *testing.T) {
		_, err := env.companies.Delete(ctx, sqlite.SeedInfinitySportCompanyID)
		require.ErrorIs(t, err, ErrConflict)
		require.Equal(t, "Company with users cannot be deleted", err.Error())

		_, err = env.companies.Get(ctx, sqlite.SeedInfinitySportCompanyID)
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		c, err := env.companies.Delete(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, c.ID)

		_, err = env.companies.Delete(ctx, created.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
