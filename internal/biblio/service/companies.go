package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/internal/biblio/store"
	"github.com/aussiebroadwan/biblio/pkg/idx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
)

type CompaniesService struct {
	Store store.Store
}

type CompanyInput struct {
	Name     string
	Address  string
	Postcode string
	City     string
	Country  string
}

// UpdateCompanyInput is a partial update; nil fields are left unchanged.
type UpdateCompanyInput struct {
	Name     *string
	Address  *string
	Postcode *string
	City     *string
	Country  *string
}

func (s *CompaniesService) Get(ctx context.Context, id string) (domain.Company, error) {
	c, err := s.Store.Companies().GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, newError(ErrNotFound, msgCompanyNotFound)
		}
		return domain.Company{}, err
	}
	return c, nil
}

func (s *CompaniesService) List(ctx context.Context, page Page) ([]domain.Company, error) {
	page = page.normalized()
	return s.Store.Companies().ListCompanies(ctx, page.Limit, page.Offset)
}

func (s *CompaniesService) Create(ctx context.Context, in CompanyInput) (domain.Company, error) {
	now := time.Now().UTC()
	c := domain.Company{
		ID:        idx.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Postcode:  in.Postcode,
		City:      in.City,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created domain.Company
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Companies().CreateCompany(ctx, c); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return newError(ErrConflict, "Company already exists")
			}
			return err
		}
		var err error
		created, err = tx.Companies().GetCompanyByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return domain.Company{}, err
	}

	slogx.FromContext(ctx).Info("company created", slog.String("company_id", created.ID))
	return created, nil
}

func (s *CompaniesService) Update(ctx context.Context, id string, in UpdateCompanyInput) (domain.Company, error) {
	var updated domain.Company
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Companies().GetCompanyByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrNotFound, msgCompanyNotFound)
			}
			return err
		}

		if in.Name != nil {
			c.Name = *in.Name
		}
		if in.Address != nil {
			c.Address = *in.Address
		}
		if in.Postcode != nil {
			c.Postcode = *in.Postcode
		}
		if in.City != nil {
			c.City = *in.City
		}
		if in.Country != nil {
			c.Country = *in.Country
		}
		c.UpdatedAt = time.Now().UTC()

		if err := tx.Companies().UpdateCompany(ctx, c); err != nil {
			return err
		}
		updated, err = tx.Companies().GetCompanyByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Company{}, err
	}

	slogx.FromContext(ctx).Info("company updated", slog.String("company_id", id))
	return updated, nil
}

// Delete removes a company nobody references and returns it as it was.
func (s *CompaniesService) Delete(ctx context.Context, id string) (domain.Company, error) {
	var deleted domain.Company
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Companies().GetCompanyByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return newError(ErrNotFound, msgCompanyNotFound)
			}
			return err
		}
		if err := tx.Companies().DeleteCompany(ctx, id); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return newError(ErrConflict, "Company with users cannot be deleted")
			}
			return err
		}
		deleted = c
		return nil
	})
	if err != nil {
		return domain.Company{}, err
	}

	slogx.FromContext(ctx).Info("company deleted", slog.String("company_id", id))
	return deleted, nil
}
