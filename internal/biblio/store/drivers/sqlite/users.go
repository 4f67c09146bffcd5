package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
)

const userSelect = `
SELECT u.id, u.firstname, u.lastname, u.email, u.password_hash, u.company_id, u.role_id,
       u.created_at, u.updated_at,
       c.id, c.name, c.address, c.postcode, c.city, c.country, c.created_at, c.updated_at
FROM users u
LEFT JOIN companies c ON c.id = u.company_id`

type usersRepo struct {
	q querier
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                        domain.User
		companyID, roleID        sql.NullString
		createdAt, updatedAt     string
		cID, cName, cAddress     sql.NullString
		cPostcode, cCity, cCntry sql.NullString
		cCreated, cUpdated       sql.NullString
	)

	err := row.Scan(
		&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash, &companyID, &roleID,
		&createdAt, &updatedAt,
		&cID, &cName, &cAddress, &cPostcode, &cCity, &cCntry, &cCreated, &cUpdated,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.CompanyID = mapNullStringPtr(companyID)
	u.RoleID = mapNullStringPtr(roleID)
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)

	if cID.Valid {
		u.Company = &domain.Company{
			ID:        cID.String,
			Name:      cName.String,
			Address:   cAddress.String,
			Postcode:  cPostcode.String,
			City:      cCity.String,
			Country:   cCntry.String,
			CreatedAt: parseTime(cCreated.String),
			UpdatedAt: parseTime(cUpdated.String),
		}
	}

	return u, nil
}

// attachRoles loads each user's role and permissions. Rows must be closed
// before calling it.
func (r *usersRepo) attachRoles(ctx context.Context, users []domain.User) error {
	roles := &rolesRepo{q: r.q}
	loaded := make(map[string]*domain.Role)

	for i := range users {
		if users[i].RoleID == nil {
			continue
		}
		id := *users[i].RoleID

		role, ok := loaded[id]
		if !ok {
			got, err := roles.GetRoleByID(ctx, id)
			if err != nil {
				return err
			}
			role = &got
			loaded[id] = role
		}
		users[i].Role = role
	}
	return nil
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, userSelect+" WHERE "+where, arg))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	users := []domain.User{u}
	if err := r.attachRoles(ctx, users); err != nil {
		return domain.User{}, err
	}
	return users[0], nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, "u.id = ?", id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "u.email = ?", email)
}

func (r *usersRepo) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, userSelect+" ORDER BY u.id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachRoles(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	ts := formatTime(orNow(u.CreatedAt))
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, firstname, lastname, email, password_hash, company_id, role_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Firstname, u.Lastname, u.Email, u.PasswordHash,
		mapOptionalString(u.CompanyID), mapOptionalString(u.RoleID), ts, ts)
	return mapWriteError(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	return expectOne(r.q.ExecContext(ctx,
		`UPDATE users
		 SET firstname = ?, lastname = ?, email = ?, password_hash = ?, company_id = ?, role_id = ?, updated_at = ?
		 WHERE id = ?`,
		u.Firstname, u.Lastname, u.Email, u.PasswordHash,
		mapOptionalString(u.CompanyID), mapOptionalString(u.RoleID), formatTime(orNow(u.UpdatedAt)), u.ID))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return expectOne(r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}
