package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const productColumns = `id, title, description, price, image, stock, is_active`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	var image sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &image, &p.Stock, &p.IsActive); err != nil {
		return nil, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	return p, nil
}

// CreateProduct сохраняет товар и возвращает его ID.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	const op = "storage.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	query := `INSERT INTO products (title, description, price, image, stock, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := s.conn(ctx).QueryRowContext(ctx, query,
		p.Title, p.Description, p.Price, p.Image, p.Stock, p.IsActive).Scan(&id); err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// GetProduct возвращает товар по ID.
func (s *Storage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "storage.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

// ListProducts возвращает товары, упорядоченные по ID. includeInactive включает скрытые товары.
func (s *Storage) ListProducts(ctx context.Context, includeInactive bool) ([]models.Product, error) {
	const op = "storage.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products
			  WHERE is_active OR $1
			  ORDER BY id`
	rows, err := s.conn(ctx).QueryContext(ctx, query, includeInactive)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// UpdateProduct меняет только заданные в патче колонки и возвращает товар
// после обновления. Остальные колонки, включая stock, не перезаписываются,
// поэтому параллельное списание остатка не теряется.
func (s *Storage) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE products
			  SET title = COALESCE($2::text, title),
			      description = COALESCE($3::text, description),
			      price = COALESCE($4::numeric, price),
			      image = COALESCE($5::text, image),
			      stock = COALESCE($6::integer, stock),
			      is_active = COALESCE($7::boolean, is_active)
			  WHERE id = $1
			  RETURNING ` + productColumns
	p, err := scanProduct(s.conn(ctx).QueryRowContext(ctx, query,
		id, patch.Title, patch.Description, patch.Price, patch.Image, patch.Stock, patch.IsActive))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

// ReduceStock списывает quantity единиц одним условным UPDATE, поэтому
// остаток никогда не уходит в минус. Если товара не хватает, строка не
// меняется и возвращается models.ErrInsufficientStock.
func (s *Storage) ReduceStock(ctx context.Context, id int64, quantity int) error {
	const op = "storage.ReduceStock"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`, id, quantity)
	if err != nil {
		return wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return wrapErr(op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, models.ErrInsufficientStock)
}

// RestoreStock возвращает quantity единиц на склад.
func (s *Storage) RestoreStock(ctx context.Context, id int64, quantity int) error {
	const op = "storage.RestoreStock"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE products SET stock = stock + $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return wrapErr(op, err)
	}
	return expectAffected(op, res)
}
