// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/database/schema"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
	"github.com/taibuivan/deptsite/pkg/uuid"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed account store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var (
	table         = schema.AdminUser
	selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		table.ID, table.Email, table.PasswordHash, table.DisplayName, table.AvatarURL,
		table.Role, table.IsActive, table.LastLoginAt, table.CreatedAt)
)

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL,
		&u.Role, &u.IsActive, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repository *postgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`, selectColumns, table.Table, table.Email)

	u, err := scanUser(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, dberr.NotFound(err, "Admin user", "get_admin_by_email")
	}
	return u, nil
}

func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Admin user")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, table.ID)

	u, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Admin user", "get_admin")
	}
	return u, nil
}

func (repository *postgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, table.Table, table.LastLoginAt, table.ID)

	_, err := repository.pool.Exec(ctx, query, at, id)
	return dberr.Wrap(err, "touch_admin_last_login")
}

func (repository *postgresRepository) Create(ctx context.Context, u *User) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`,
		table.Table, table.Email, table.PasswordHash, table.DisplayName, table.Role, table.IsActive,
		selectColumns)

	created, err := scanUser(repository.pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.DisplayName, u.Role, u.IsActive))
	if err != nil {
		return nil, dberr.Wrap(err, "create_admin")
	}
	return created, nil
}

func (repository *postgresRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, table.Table, table.PasswordHash, table.ID)

	tag, err := repository.pool.Exec(ctx, query, hash, id)
	if err != nil {
		return dberr.Wrap(err, "update_admin_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Admin user")
	}
	return nil
}
