// Package subscription управляет тарифными планами и подписками покупателей.
//
// У покупателя не больше одной действующей подписки. Действие подписки
// вычисляется лениво: статус Active и дата окончания в будущем. Истёкшие
// подписки не переписываются, их статус Inactive выводится при чтении.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Repository хранилище планов и подписок.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (int64, error)
	GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	LockSubscriber(ctx context.Context, userID int64) error
	CancelActiveSubscriptions(ctx context.Context, userID int64) (int64, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error)
	GetActiveSubscription(ctx context.Context, userID int64, now time.Time) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, id int64, endDate time.Time) error
	ListSubscriptions(ctx context.Context, userID int64) ([]models.Subscription, error)
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Metrics учёт событий подписок.
type Metrics interface {
	SubscriptionEvent(event string)
}

// PlanInput данные нового тарифного плана.
type PlanInput struct {
	Name           string
	Description    string
	Price          string
	DurationMonths int
}

// CancelResult результат отмены. Отсутствие подписки ошибкой не считается.
type CancelResult struct {
	Cancelled    bool                 `json:"cancelled"`
	Message      string               `json:"message"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

// Dashboard история подписок покупателя и действующая подписка.
type Dashboard struct {
	Active  *models.Subscription  `json:"active,omitempty"`
	History []models.Subscription `json:"history"`
}

// Service управление подписками.
type Service struct {
	repo      Repository
	publisher Publisher
	metrics   Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, publisher Publisher, metrics Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Plans возвращает все тарифные планы.
func (s *Service) Plans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscription.Plans: %w", err)
	}
	return plans, nil
}

// CreatePlan добавляет тарифный план. Только для администратора.
func (s *Service) CreatePlan(ctx context.Context, actor models.Identity, in PlanInput) (*models.SubscriptionPlan, error) {
	const op = "subscription.CreatePlan"

	if !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "admin access required")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, models.NewError(models.ErrValidation, "plan name is required")
	}
	if in.DurationMonths <= 0 {
		return nil, models.NewError(models.ErrValidation, "duration must be at least one month")
	}
	price, err := models.ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	plan := models.SubscriptionPlan{
		Name:           in.Name,
		Description:    strings.TrimSpace(in.Description),
		Price:          price,
		DurationMonths: in.DurationMonths,
	}
	plan.ID, err = s.repo.CreatePlan(ctx, plan)
	if errors.Is(err, models.ErrConflict) {
		return nil, models.NewError(models.ErrConflict, "plan with this name already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &plan, nil
}

// Subscribe оформляет подписку на план. Все прежние действующие подписки
// покупателя отменяются в той же транзакции.
func (s *Service) Subscribe(ctx context.Context, identity models.Identity, planID int64) (*models.Subscription, error) {
	const op = "subscription.Subscribe"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", identity.ID))

	if !identity.IsUser() {
		return nil, models.NewError(models.ErrForbidden, "only customers can subscribe")
	}

	var sub models.Subscription
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockSubscriber(ctx, identity.ID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.NewError(models.ErrNotFound, "user not found")
			}
			return err
		}

		plan, err := s.repo.GetPlan(ctx, planID)
		if errors.Is(err, models.ErrNotFound) {
			return models.NewError(models.ErrNotFound, "subscription plan not found")
		}
		if err != nil {
			return err
		}

		if _, err := s.repo.CancelActiveSubscriptions(ctx, identity.ID); err != nil {
			return err
		}

		now := s.now()
		end := now.Add(plan.Period())
		sub = models.Subscription{
			UserID:    identity.ID,
			PlanID:    plan.ID,
			PlanName:  plan.Name,
			Status:    models.SubscriptionActive,
			StartDate: now,
			EndDate:   &end,
		}
		sub.ID, err = s.repo.CreateSubscription(ctx, sub)
		return err
	})
	if err != nil {
		if _, ok := models.UserMessage(err); ok {
			return nil, err
		}
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewError(models.ErrConflict, "subscription is already being changed, try again")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.metrics != nil {
		s.metrics.SubscriptionEvent("created")
	}
	s.publish(ctx, log, models.EventSubscriptionCreated, sub, identity)
	log.Info("subscription created", slog.Int64("subscription_id", sub.ID), slog.String("plan", sub.PlanName))
	return &sub, nil
}

// Cancel отменяет действующую подписку покупателя.
func (s *Service) Cancel(ctx context.Context, identity models.Identity) (CancelResult, error) {
	const op = "subscription.Cancel"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", identity.ID))

	if !identity.IsUser() {
		return CancelResult{}, models.NewError(models.ErrForbidden, "only customers have subscriptions")
	}

	var result CancelResult
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		now := s.now()
		sub, err := s.repo.GetActiveSubscription(ctx, identity.ID, now)
		if errors.Is(err, models.ErrNotFound) {
			result = CancelResult{Cancelled: false, Message: "no active subscription found"}
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.repo.CancelSubscription(ctx, sub.ID, now); err != nil {
			return err
		}
		sub.Status = models.SubscriptionCancelled
		sub.EndDate = &now
		result = CancelResult{Cancelled: true, Message: "subscription cancelled", Subscription: sub}
		return nil
	})
	if err != nil {
		return CancelResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if result.Cancelled {
		if s.metrics != nil {
			s.metrics.SubscriptionEvent("cancelled")
		}
		s.publish(ctx, log, models.EventSubscriptionCancelled, *result.Subscription, identity)
		log.Info("subscription cancelled", slog.Int64("subscription_id", result.Subscription.ID))
	}
	return result, nil
}

// Dashboard возвращает историю подписок (новые первыми) и действующую подписку.
// Статусы истории показываются с учётом истечения срока.
func (s *Service) Dashboard(ctx context.Context, identity models.Identity) (Dashboard, error) {
	const op = "subscription.Dashboard"

	if !identity.IsUser() {
		return Dashboard{}, models.NewError(models.ErrForbidden, "only customers have subscriptions")
	}
	history, err := s.repo.ListSubscriptions(ctx, identity.ID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	d := Dashboard{History: make([]models.Subscription, 0, len(history))}
	for _, sub := range history {
		if d.Active == nil && sub.IsActive(now) {
			active := sub
			d.Active = &active
		}
		sub.Status = sub.EffectiveStatus(now)
		d.History = append(d.History, sub)
	}
	return d, nil
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, key string, sub models.Subscription, identity models.Identity) {
	if s.publisher == nil {
		return
	}
	event := models.SubscriptionEvent{
		SubscriptionID: sub.ID,
		UserID:         identity.ID,
		Email:          identity.Email,
		PlanName:       sub.PlanName,
		EndDate:        sub.EndDate,
	}
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		log.Error("failed to publish event", slog.String("event", key), sl.Err(err))
	}
}
