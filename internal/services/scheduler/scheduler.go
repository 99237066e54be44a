// Package scheduler по расписанию рассылает напоминания об окончании подписок.
// Статусы подписок он не меняет.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// SubscriptionRepository поиск истекающих подписок.
type SubscriptionRepository interface {
	ListExpiringSubscriptions(ctx context.Context, from, to time.Time) ([]models.SubscriptionEvent, error)
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Claimer не даёт отправить одно напоминание дважды.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Service планировщик напоминаний.
type Service struct {
	repo      SubscriptionRepository
	publisher Publisher
	claimer   Claimer
	window    time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр Service. window задаёт, за сколько до
// окончания подписки отправляется напоминание.
func NewService(repo SubscriptionRepository, publisher Publisher, claimer Claimer, window time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		claimer:   claimer,
		window:    window,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start регистрирует задачу по cron-выражению spec и запускает планировщик.
// Планировщик останавливается, когда ctx отменён; возвращённый канал
// закрывается после завершения выполняющихся задач.
func (s *Service) Start(ctx context.Context, spec string) (<-chan struct{}, error) {
	const op = "scheduler.Start"

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, func() { s.RemindExpiring(ctx) }); err != nil {
		return nil, fmt.Errorf("%s: invalid spec %q: %w", op, spec, err)
	}
	c.Start()
	s.log.Info("scheduler started", slog.String("spec", spec), slog.Duration("window", s.window))

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		close(done)
	}()
	return done, nil
}

// RemindExpiring публикует напоминания по подпискам, которые заканчиваются
// в ближайшее окно. Возвращает число отправленных напоминаний.
func (s *Service) RemindExpiring(ctx context.Context) int {
	const op = "scheduler.RemindExpiring"
	log := s.log.With(slog.String("op", op))

	now := s.now()
	events, err := s.repo.ListExpiringSubscriptions(ctx, now, now.Add(s.window))
	if err != nil {
		log.Error("failed to find expiring subscriptions", sl.Err(err))
		return 0
	}
	if len(events) == 0 {
		log.Info("no expiring subscriptions found")
		return 0
	}
	log.Info("found expiring subscriptions", slog.Int("count", len(events)))

	sent := 0
	for _, e := range events {
		if s.claimer != nil {
			ok, err := s.claimer.Claim(ctx, "reminded:"+strconv.FormatInt(e.SubscriptionID, 10), s.window*2)
			if err != nil {
				log.Warn("failed to claim reminder", sl.Err(err))
			} else if !ok {
				continue
			}
		}
		if err := s.publisher.Publish(ctx, models.EventSubscriptionExpiring, e); err != nil {
			log.Error("failed to publish message", slog.Int64("subscription_id", e.SubscriptionID), sl.Err(err))
			continue
		}
		sent++
	}
	return sent
}
