package sqlite

import (
	"context"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
)

const companyColumns = `id, name, address, postcode, city, country, created_at, updated_at`

type companiesRepo struct {
	q querier
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		c                    domain.Company
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Postcode, &c.City, &c.Country, &createdAt, &updatedAt); err != nil {
		return domain.Company{}, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	c, err := scanCompany(r.q.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	ts := formatTime(orNow(c.CreatedAt))
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO companies (id, name, address, postcode, city, country, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Address, c.Postcode, c.City, c.Country, ts, ts)
	return mapWriteError(err)
}

func (r *companiesRepo) UpdateCompany(ctx context.Context, c domain.Company) error {
	return expectOne(r.q.ExecContext(ctx,
		`UPDATE companies
		 SET name = ?, address = ?, postcode = ?, city = ?, country = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Address, c.Postcode, c.City, c.Country, formatTime(orNow(c.UpdatedAt)), c.ID))
}

func (r *companiesRepo) DeleteCompany(ctx context.Context, id string) error {
	return expectOne(r.q.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id))
}
