package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CreatePlan сохраняет тарифный план. Повтор имени даёт models.ErrConflict.
func (s *Storage) CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error) {
	const op = "storage.CreatePlan"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var id int64
	if err := s.conn(ctx).QueryRowContext(ctx,
		`INSERT INTO subscription_plans (name, description, price, duration_months)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		plan.Name, plan.Description, plan.Price, plan.DurationMonths).Scan(&id); err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// GetPlan возвращает тарифный план по ID.
func (s *Storage) GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	const op = "storage.GetPlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p := &models.SubscriptionPlan{}
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id, name, description, price, duration_months FROM subscription_plans WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationMonths); err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

// ListPlans возвращает все тарифные планы, дешёвые первыми.
func (s *Storage) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	const op = "storage.ListPlans"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT id, name, description, price, duration_months
		 FROM subscription_plans
		 ORDER BY price, id`)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var plans []models.SubscriptionPlan
	for rows.Next() {
		var p models.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DurationMonths); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}
