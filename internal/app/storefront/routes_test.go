package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/subscription"
)

// Заглушки реализуют только то, что вызывают проверяемые маршруты.
type stubAuth struct{ AuthService }

func (stubAuth) ValidateToken(_ context.Context, token string) (models.Identity, error) {
	switch token {
	case "user":
		return models.UserIdentity(1, "u@shop.test"), nil
	case "admin":
		return models.AdminIdentity(1, "admin@shop.test"), nil
	}
	return models.Identity{}, models.NewError(models.ErrAuth, "invalid or expired token")
}

type stubCatalog struct{ CatalogService }

func (stubCatalog) List(context.Context) ([]models.Product, error) { return []models.Product{}, nil }

func (stubCatalog) ListAll(context.Context, models.Identity) ([]models.Product, error) {
	return []models.Product{}, nil
}

type stubCart struct{ CartService }

func (stubCart) Items(context.Context, models.Identity) ([]models.CartEntry, error) { return nil, nil }

type stubOrders struct{ OrderService }

func (stubOrders) List(context.Context, models.Identity) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (stubOrders) Complete(_ context.Context, _ models.Identity, id int64) (*models.Order, error) {
	return &models.Order{ID: id, Status: models.OrderCompleted}, nil
}

func (stubOrders) Cancel(_ context.Context, _ models.Identity, id int64) (*models.Order, error) {
	return &models.Order{ID: id, Status: models.OrderCancelled}, nil
}

type stubSubscriptions struct{ SubscriptionService }

func (stubSubscriptions) Plans(context.Context) ([]models.SubscriptionPlan, error) { return nil, nil }

func (stubSubscriptions) Dashboard(context.Context, models.Identity) (subscription.Dashboard, error) {
	return subscription.Dashboard{}, nil
}

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.HTTPServer{LoginRate: 100, LoginBurst: 100},
		nil,
		Services{
			Auth:         stubAuth{},
			Catalog:      stubCatalog{},
			Cart:         stubCart{},
			Orders:       stubOrders{},
			Subscription: stubSubscriptions{},
		},
	)
	return r
}

func TestRoutes_Access(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"public catalog", http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{"public plans", http.MethodGet, "/api/v1/subscriptions/plans", "", http.StatusOK},
		{"cart needs token", http.MethodGet, "/api/v1/cart", "", http.StatusUnauthorized},
		{"cart with bad token", http.MethodGet, "/api/v1/cart", "forged", http.StatusUnauthorized},
		{"cart for user", http.MethodGet, "/api/v1/cart", "user", http.StatusOK},
		{"cart is not for admin", http.MethodGet, "/api/v1/cart", "admin", http.StatusForbidden},
		{"dashboard for user", http.MethodGet, "/api/v1/subscriptions/dashboard", "user", http.StatusOK},
		{"orders for user", http.MethodGet, "/api/v1/orders", "user", http.StatusOK},
		{"orders for admin", http.MethodGet, "/api/v1/orders", "admin", http.StatusOK},
		{"admin products for user", http.MethodGet, "/api/v1/admin/products", "user", http.StatusForbidden},
		{"admin products for admin", http.MethodGet, "/api/v1/admin/products", "admin", http.StatusOK},
		{"admin completes order", http.MethodPost, "/api/v1/admin/orders/4/complete", "admin", http.StatusOK},
		{"admin delete needs admin", http.MethodDelete, "/api/v1/admin/users/3", "user", http.StatusForbidden},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
