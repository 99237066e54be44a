package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListExpiringSubscriptions(ctx context.Context, from, to time.Time) ([]models.SubscriptionEvent, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionEvent), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

type memoryClaimer map[string]bool

func (c memoryClaimer) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	if c[key] {
		return false, nil
	}
	c[key] = true
	return true, nil
}

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, pub *MockPublisher) *Service {
	s := NewService(repo, pub, memoryClaimer{}, 24*time.Hour, sl.Discard())
	s.now = func() time.Time { return now }
	return s
}

func TestRemindExpiring(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	s := newTestService(repo, pub)

	events := []models.SubscriptionEvent{
		{SubscriptionID: 1, Email: "a@shop.test", PlanName: "Basic"},
		{SubscriptionID: 2, Email: "b@shop.test", PlanName: "Premium"},
	}
	repo.On("ListExpiringSubscriptions", mock.Anything, now, now.Add(24*time.Hour)).Return(events, nil).Twice()
	pub.On("Publish", mock.Anything, models.EventSubscriptionExpiring, events[0]).Return(nil).Once()
	pub.On("Publish", mock.Anything, models.EventSubscriptionExpiring, events[1]).Return(errors.New("broker down")).Once()

	assert.Equal(t, 1, s.RemindExpiring(context.Background()))
	assert.Equal(t, 0, s.RemindExpiring(context.Background()), "claimed reminders are not sent again")
	pub.AssertExpectations(t)
}

func TestRemindExpiring_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	s := newTestService(repo, pub)
	repo.On("ListExpiringSubscriptions", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	assert.Equal(t, 0, s.RemindExpiring(context.Background()))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestStart(t *testing.T) {
	s := newTestService(new(MockRepository), new(MockPublisher))

	_, err := s.Start(context.Background(), "not a spec")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := s.Start(ctx, "@daily")
	require.NoError(t, err)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
