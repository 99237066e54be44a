package subscription_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/subscription"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

func newStorageService(t *testing.T) (*subscription.Service, *repository.TestDataFactory) {
	storage := repository.SetupTestStorage(t)
	pub := new(PublisherMock)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return subscription.NewService(storage, pub, nil, sl.Discard()), repository.NewTestDataFactory(storage)
}

func TestService_SubscribeTwiceWithStorage(t *testing.T) {
	svc, f := newStorageService(t)
	ctx := context.Background()

	userID := f.CreateUser(t, "erin@shop.test")
	basic := f.CreatePlan(t, "Basic", 1)
	premium := f.CreatePlan(t, "Premium", 12)
	customer := models.UserIdentity(userID, "erin@shop.test")

	first, err := svc.Subscribe(ctx, customer, basic)
	require.NoError(t, err)
	second, err := svc.Subscribe(ctx, customer, premium)
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, customer)
	require.NoError(t, err)
	require.Len(t, d.History, 2)

	active := 0
	for _, s := range d.History {
		switch s.ID {
		case first.ID:
			assert.Equal(t, models.SubscriptionCancelled, s.Status)
		case second.ID:
			assert.Equal(t, models.SubscriptionActive, s.Status)
		}
		if s.Status == models.SubscriptionActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
	require.NotNil(t, d.Active)
	assert.Equal(t, second.ID, d.Active.ID)
	assert.Equal(t, "Premium", d.Active.PlanName)
}

func TestService_SubscribeConcurrentlyWithStorage(t *testing.T) {
	svc, f := newStorageService(t)
	ctx := context.Background()

	userID := f.CreateUser(t, "frank@shop.test")
	plan := f.CreatePlan(t, "Basic", 1)
	customer := models.UserIdentity(userID, "frank@shop.test")

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Subscribe(ctx, customer, plan)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	d, err := svc.Dashboard(ctx, customer)
	require.NoError(t, err)
	require.Len(t, d.History, attempts)
	active := 0
	for _, s := range d.History {
		if s.Status == models.SubscriptionActive {
			active++
		}
	}
	assert.Equal(t, 1, active, "exactly one active subscription after concurrent subscribes")
}
