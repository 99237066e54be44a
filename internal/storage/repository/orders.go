package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CreateOrder сохраняет заказ и его позиции, заполняя ID и дату.
// Должен вызываться внутри WithinTx, чтобы заказ и позиции появились вместе.
func (s *Storage) CreateOrder(ctx context.Context, order *models.Order) error {
	const op = "storage.CreateOrder"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	q := s.conn(ctx)
	if err := q.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, total_price, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, date_ordered`,
		order.UserID, order.TotalPrice, order.Status).Scan(&order.ID, &order.DateOrdered); err != nil {
		return wrapErr(op, err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := q.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return wrapErr(op, err)
		}
	}
	return nil
}

// GetOrder возвращает заказ с позициями.
func (s *Storage) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "storage.GetOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	o := &models.Order{}
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id, user_id, total_price, status, date_ordered FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.DateOrdered); err != nil {
		return nil, wrapErr(op, err)
	}
	items, err := s.orderItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	o.Items = items[o.ID]
	return o, nil
}

// ListOrders возвращает заказы пользователя userID, а при userID == 0 все заказы.
// Новые заказы идут первыми.
func (s *Storage) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	const op = "storage.ListOrders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT id, user_id, total_price, status, date_ordered
		 FROM orders
		 WHERE $1 = 0 OR user_id = $1
		 ORDER BY date_ordered DESC, id DESC`, userID)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var orders []models.Order
	var ids []int64
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.DateOrdered); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := s.orderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (s *Storage) orderItems(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, price
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		result[it.OrderID] = append(result[it.OrderID], it)
	}
	return result, rows.Err()
}

// UpdateOrderStatus переводит заказ из статуса from в to. Возвращает false,
// если заказ существует, но находится в другом статусе.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, from, to models.OrderStatus) (bool, error) {
	const op = "storage.UpdateOrderStatus"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, wrapErr(op, err)
	}
	if !exists {
		return false, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return false, nil
}
