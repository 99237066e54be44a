package repository

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const userColumns = `id, name, email, password_hash, address, is_active, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var address sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &address, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, err
	}
	if address.Valid {
		u.Address = &address.String
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Повтор email даёт models.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	query := `INSERT INTO users (name, email, password_hash, address)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err := s.conn(ctx).QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Address).Scan(&id); err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// GetUserByEmail ищет пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// DeleteUser удаляет пользователя вместе с его заказами и подписками.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapErr(op, err)
	}
	return expectAffected(op, res)
}
