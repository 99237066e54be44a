package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/cart"
)

type ProductsMock struct {
	mock.Mock
}

func (m *ProductsMock) Get(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

var buyer = models.UserIdentity(3, "buyer@shop.test")

func setup(t *testing.T) (*cart.Service, *ProductsMock, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	products := new(ProductsMock)
	return cart.NewService(cache.NewCartStore(c, time.Hour), products, sl.Discard()), products, mr
}

func TestService_AddSnapshotsPrice(t *testing.T) {
	svc, products, mr := setup(t)
	ctx := context.Background()
	products.On("Get", mock.Anything, int64(1)).Return(&models.Product{
		ID: 1, Title: "Pen", Price: decimal.RequireFromString("10.00"), Stock: 5, IsActive: true,
	}, nil).Twice()

	first, err := svc.Add(ctx, buyer, 1)
	require.NoError(t, err)
	second, err := svc.Add(ctx, buyer, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.LineID, second.LineID, "duplicates are separate entries")
	assert.True(t, mr.Exists("cart:user:3"))

	items, err := svc.Items(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, decimal.RequireFromString("20").Equal(cart.Total(items)))
}

func TestService_AddRejects(t *testing.T) {
	tests := []struct {
		name    string
		product *models.Product
		err     error
		wantErr error
	}{
		{
			name:    "out of stock",
			product: &models.Product{ID: 1, Title: "Pen", Stock: 0, IsActive: true},
			wantErr: models.ErrInsufficientStock,
		},
		{
			name:    "inactive",
			product: &models.Product{ID: 1, Title: "Pen", Stock: 3, IsActive: false},
			wantErr: models.ErrNotFound,
		},
		{
			name:    "missing",
			err:     models.NewError(models.ErrNotFound, "product not found"),
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, products, _ := setup(t)
			if tt.product != nil {
				products.On("Get", mock.Anything, int64(1)).Return(tt.product, nil).Once()
			} else {
				products.On("Get", mock.Anything, int64(1)).Return(nil, tt.err).Once()
			}

			_, err := svc.Add(context.Background(), buyer, 1)
			assert.ErrorIs(t, err, tt.wantErr)

			items, err := svc.Items(context.Background(), buyer)
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestService_AdminHasNoCart(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Add(context.Background(), models.AdminIdentity(1, "admin@shop.test"), 1)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestService_RemoveAndClear(t *testing.T) {
	svc, products, _ := setup(t)
	ctx := context.Background()
	products.On("Get", mock.Anything, int64(1)).Return(&models.Product{
		ID: 1, Title: "Pen", Price: decimal.RequireFromString("10.00"), Stock: 5, IsActive: true,
	}, nil)

	entry, err := svc.Add(ctx, buyer, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, buyer, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, buyer, entry.LineID))
	assert.ErrorIs(t, svc.Remove(ctx, buyer, entry.LineID), models.ErrNotFound)

	items, err := svc.Items(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Clear(ctx, buyer))
	items, err = svc.Items(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTotal_Empty(t *testing.T) {
	assert.True(t, cart.Total(nil).IsZero())
}
