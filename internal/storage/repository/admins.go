package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// UpsertAdmin создаёт администратора или обновляет имя и хэш пароля существующего.
func (s *Storage) UpsertAdmin(ctx context.Context, admin models.Admin) (int64, error) {
	const op = "storage.UpsertAdmin"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	query := `INSERT INTO admins (name, email, password_hash)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (email) DO UPDATE
			  SET name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, is_active = TRUE
			  RETURNING id`
	if err := s.conn(ctx).QueryRowContext(ctx, query,
		admin.Name, admin.Email, admin.PasswordHash).Scan(&id); err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// GetAdminByEmail возвращает администратора по email.
func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const op = "storage.GetAdminByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, name, email, password_hash, last_login, created_at, is_active
			  FROM admins WHERE LOWER(email) = LOWER($1)`
	a := &models.Admin{}
	var lastLogin sql.NullTime
	if err := s.conn(ctx).QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &lastLogin, &a.CreatedAt, &a.IsActive); err != nil {
		return nil, wrapErr(op, err)
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return a, nil
}

// TouchAdminLogin записывает время последнего входа.
func (s *Storage) TouchAdminLogin(ctx context.Context, id int64, at time.Time) error {
	const op = "storage.TouchAdminLogin"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE admins SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return wrapErr(op, err)
	}
	return expectAffected(op, res)
}
