package userdelete

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) DeleteUser(ctx context.Context, actor models.Identity, userID int64) error {
	return m.Called(ctx, actor, userID).Error(0)
}

func TestDeleteUserHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := models.AdminIdentity(1, "admin@shop.test")

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"deleted", nil, http.StatusOK},
		{"unknown user", models.NewError(models.ErrNotFound, "user not found"), http.StatusNotFound},
		{"not an admin", models.NewError(models.ErrForbidden, "admin access required"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("DeleteUser", mock.Anything, admin, int64(42)).Return(tt.err)

			req := httptest.NewRequest(http.MethodDelete, "/admin/users/42", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "42")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithIdentity(ctx, admin))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
