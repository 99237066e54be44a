package productupdate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, actor models.Identity, id int64, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, actor, id, patch)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func TestRequestPatch(t *testing.T) {
	price := "12.345"
	stock := 4
	patch, err := Request{Price: &price, Stock: &stock}.Patch()
	require.NoError(t, err)
	require.NotNil(t, patch.Price)
	assert.Equal(t, "12.35", patch.Price.StringFixed(2))
	assert.Equal(t, 4, *patch.Stock)
	assert.Nil(t, patch.Title)

	bad := "cheap"
	_, err = Request{Price: &bad}.Patch()
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := models.AdminIdentity(1, "admin@shop.test")

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "hide product",
			body: `{"is_active": false}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, admin, int64(5), mock.MatchedBy(func(p models.ProductPatch) bool {
					return p.IsActive != nil && !*p.IsActive && p.Price == nil
				})).Return(&models.Product{ID: 5, Title: "Mug", Price: decimal.NewFromInt(7)}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Mug"`,
		},
		{
			name:           "bad price",
			body:           `{"price": "abc"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "please enter a valid price",
		},
		{
			name: "missing product",
			body: `{"stock": 3}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, admin, int64(5), mock.Anything).
					Return(nil, models.NewError(models.ErrNotFound, "product not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/admin/products/5", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "5")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithIdentity(ctx, admin))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
