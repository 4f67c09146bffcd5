package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
)

type rolesRepo struct {
	q querier
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	var (
		role                 domain.Role
		companyID            sql.NullString
		createdAt, updatedAt string
	)

	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, company_id, created_at, updated_at FROM roles WHERE id = ?`, id,
	).Scan(&role.ID, &role.Name, &companyID, &createdAt, &updatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}

	role.CompanyID = mapNullStringPtr(companyID)
	role.CreatedAt = parseTime(createdAt)
	role.UpdatedAt = parseTime(updatedAt)

	role.Permissions, err = r.permissions(ctx, role.ID)
	if err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

func (r *rolesRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}

	// Collect ids first, the rows hold the only connection.
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(ids))
	for _, id := range ids {
		role, err := r.GetRoleByID(ctx, id)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *rolesRepo) permissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT permission FROM role_permissions WHERE role_id = ? ORDER BY permission`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := []domain.Permission{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, domain.Permission(p))
	}
	return perms, rows.Err()
}
