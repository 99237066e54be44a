package add

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Add(ctx context.Context, identity models.Identity, productID int64) (models.CartEntry, error) {
	args := m.Called(ctx, identity, productID)
	return args.Get(0).(models.CartEntry), args.Error(1)
}

func TestAddHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	buyer := models.UserIdentity(4, "bob@shop.test")

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "товар добавлен",
			body: `{"product_id": 9}`,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, buyer, int64(9)).Return(models.CartEntry{
					LineID: "l-1", ProductID: 9, Title: "Mug", Price: decimal.RequireFromString("7.50"),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"Mug added to cart"`,
		},
		{
			name:           "нет product_id",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field ProductID is a required field",
		},
		{
			name: "нет на складе",
			body: `{"product_id": 9}`,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, buyer, int64(9)).
					Return(models.CartEntry{}, models.NewError(models.ErrInsufficientStock, "Mug is out of stock"))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"Mug is out of stock"`,
		},
		{
			name: "неактивный товар",
			body: `{"product_id": 10}`,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, buyer, int64(10)).
					Return(models.CartEntry{}, models.NewError(models.ErrNotFound, "product not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"product not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), buyer))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
