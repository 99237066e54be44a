package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const subscriptionSelect = `SELECT s.id, s.user_id, s.plan_id, p.name, s.status, s.start_date, s.end_date
			  FROM subscriptions s
			  JOIN subscription_plans p ON p.id = s.plan_id`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var endDate sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.PlanName,
		&sub.Status, &sub.StartDate, &endDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	return sub, nil
}

// LockSubscriber блокирует строку пользователя до конца транзакции, чтобы
// параллельные оформления подписки одного покупателя шли по очереди.
func (s *Storage) LockSubscriber(ctx context.Context, userID int64) error {
	const op = "storage.LockSubscriber"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	var id int64
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id); err != nil {
		return wrapErr(op, err)
	}
	return nil
}

// CancelActiveSubscriptions переводит все подписки пользователя со статусом
// Active в Cancelled и возвращает число затронутых строк.
func (s *Storage) CancelActiveSubscriptions(ctx context.Context, userID int64) (int64, error) {
	const op = "storage.CancelActiveSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE subscriptions SET status = $2 WHERE user_id = $1 AND status = $3`,
		userID, models.SubscriptionCancelled, models.SubscriptionActive)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CreateSubscription сохраняет подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	const op = "storage.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	if err := s.conn(ctx).QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_id, plan_id, status, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sub.UserID, sub.PlanID, sub.Status, sub.StartDate, sub.EndDate).Scan(&id); err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// GetActiveSubscription возвращает действующую на момент now подписку
// пользователя: статус Active и срок не истёк.
func (s *Storage) GetActiveSubscription(ctx context.Context, userID int64, now time.Time) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := subscriptionSelect + `
			  WHERE s.user_id = $1 AND s.status = $2 AND (s.end_date IS NULL OR s.end_date > $3)
			  ORDER BY s.start_date DESC, s.id DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.conn(ctx).QueryRowContext(ctx, query, userID, models.SubscriptionActive, now))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return sub, nil
}

// CancelSubscription отменяет подписку, ставя дату окончания endDate.
func (s *Storage) CancelSubscription(ctx context.Context, id int64, endDate time.Time) error {
	const op = "storage.CancelSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE subscriptions SET status = $2, end_date = $3 WHERE id = $1`,
		id, models.SubscriptionCancelled, endDate)
	if err != nil {
		return wrapErr(op, err)
	}
	return expectAffected(op, res)
}

// ListSubscriptions возвращает историю подписок пользователя, новые первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, userID int64) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).QueryContext(ctx, subscriptionSelect+`
			  WHERE s.user_id = $1
			  ORDER BY s.start_date DESC, s.id DESC`, userID)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// ListExpiringSubscriptions возвращает действующие подписки, срок которых
// заканчивается в интервале (from, to], вместе с контактами владельца.
func (s *Storage) ListExpiringSubscriptions(ctx context.Context, from, to time.Time) ([]models.SubscriptionEvent, error) {
	const op = "storage.ListExpiringSubscriptions"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT s.id, u.id, u.email, u.name, p.name, s.end_date
		 FROM subscriptions s
		 JOIN users u ON u.id = s.user_id
		 JOIN subscription_plans p ON p.id = s.plan_id
		 WHERE s.status = $1 AND s.end_date > $2 AND s.end_date <= $3
		 ORDER BY s.end_date`, models.SubscriptionActive, from, to)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var events []models.SubscriptionEvent
	for rows.Next() {
		var e models.SubscriptionEvent
		var end time.Time
		if err := rows.Scan(&e.SubscriptionID, &e.UserID, &e.Email, &e.Name, &e.PlanName, &end); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.EndDate = &end
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}
