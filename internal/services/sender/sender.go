// Package sender превращает доменные события в письма покупателям.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Mailer отправка одного письма.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service отправляет уведомления по событиям из очередей.
type Service struct {
	mailer Mailer
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(mailer Mailer, log *slog.Logger) *Service {
	return &Service{mailer: mailer, log: log}
}

// Handlers возвращает обработчик для каждого ключа маршрутизации.
func (s *Service) Handlers(ctx context.Context) map[string]func([]byte) error {
	return map[string]func([]byte) error{
		models.EventOrderPlaced:           func(b []byte) error { return s.OrderPlaced(ctx, b) },
		models.EventSubscriptionCreated:   func(b []byte) error { return s.SubscriptionCreated(ctx, b) },
		models.EventSubscriptionCancelled: func(b []byte) error { return s.SubscriptionCancelled(ctx, b) },
		models.EventSubscriptionExpiring:  func(b []byte) error { return s.SubscriptionExpiring(ctx, b) },
	}
}

// OrderPlaced подтверждает покупателю оформление заказа.
func (s *Service) OrderPlaced(ctx context.Context, body []byte) error {
	var e models.OrderPlacedEvent
	if err := s.decode(body, &e); err != nil {
		return err
	}
	text := fmt.Sprintf("Hello!\n\nYour order #%d with %d item(s) for a total of %s has been received and is pending.\n\nThank you for shopping with us.",
		e.OrderID, e.Items, e.TotalPrice.StringFixed(2))
	return s.send(ctx, e.Email, fmt.Sprintf("Order #%d received", e.OrderID), text)
}

// SubscriptionCreated подтверждает оформление подписки.
func (s *Service) SubscriptionCreated(ctx context.Context, body []byte) error {
	var e models.SubscriptionEvent
	if err := s.decode(body, &e); err != nil {
		return err
	}
	text := fmt.Sprintf("Hello%s!\n\nYour %s subscription is now active until %s.",
		greeting(e.Name), e.PlanName, formatDate(e.EndDate))
	return s.send(ctx, e.Email, "Subscription activated", text)
}

// SubscriptionCancelled сообщает об отмене подписки.
func (s *Service) SubscriptionCancelled(ctx context.Context, body []byte) error {
	var e models.SubscriptionEvent
	if err := s.decode(body, &e); err != nil {
		return err
	}
	text := fmt.Sprintf("Hello%s!\n\nYour %s subscription has been cancelled.", greeting(e.Name), e.PlanName)
	return s.send(ctx, e.Email, "Subscription cancelled", text)
}

// SubscriptionExpiring напоминает о скором окончании подписки.
func (s *Service) SubscriptionExpiring(ctx context.Context, body []byte) error {
	var e models.SubscriptionEvent
	if err := s.decode(body, &e); err != nil {
		return err
	}
	text := fmt.Sprintf("Hello%s!\n\nYour %s subscription ends on %s.\n\nRenew it in advance to keep your benefits.",
		greeting(e.Name), e.PlanName, formatDate(e.EndDate))
	return s.send(ctx, e.Email, "Your subscription is ending soon", text)
}

func (s *Service) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("sender.decode: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to, subject, text string) error {
	if to == "" {
		s.log.Warn("event without recipient skipped", slog.String("subject", subject))
		return nil
	}
	if err := s.mailer.Send(ctx, to, subject, text); err != nil {
		return fmt.Errorf("sender.send: %w", err)
	}
	s.log.Info("email sent successfully", slog.String("to", to), slog.String("subject", subject))
	return nil
}

func greeting(name string) string {
	if name == "" {
		return ""
	}
	return ", " + name
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "further notice"
	}
	return t.Format("02 Jan 2006")
}
