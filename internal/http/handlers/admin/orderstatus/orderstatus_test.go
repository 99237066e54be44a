package orderstatus

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

func TestOrderStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := models.AdminIdentity(1, "admin@shop.test")

	tests := []struct {
		name           string
		transition     Transition
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "completed",
			transition: func(_ context.Context, actor models.Identity, id int64) (*models.Order, error) {
				assert.Equal(t, admin, actor)
				return &models.Order{ID: id, Status: models.OrderCompleted}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"Completed"`,
		},
		{
			name: "not pending",
			transition: func(context.Context, models.Identity, int64) (*models.Order, error) {
				return nil, models.NewError(models.ErrValidation, "only pending orders can be changed")
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "only pending orders can be changed",
		},
		{
			name: "missing order",
			transition: func(context.Context, models.Identity, int64) (*models.Order, error) {
				return nil, models.NewError(models.ErrNotFound, "order not found")
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "order not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/orders/5/complete", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "5")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithIdentity(ctx, admin))
			w := httptest.NewRecorder()

			New(logger, "complete", tt.transition).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
