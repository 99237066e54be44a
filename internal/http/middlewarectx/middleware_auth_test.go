package middlewarectx_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// AuthServiceMock подменяет сервис аутентификации.
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (models.Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(models.Identity)
	return identity, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handlerCalled := false

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		identity, ok := middlewarectx.IdentityFrom(r.Context())
		assert.True(t, ok)
		assert.Equal(t, models.UserIdentity(7, "ann@shop.test"), identity)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.JWTMiddleware(authMock, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockIdentity   models.Identity
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockErr:        models.NewError(models.ErrAuth, "invalid or expired token"),
			expectCall:     true,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockIdentity:   models.UserIdentity(7, "ann@shop.test"),
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			authMock.ExpectedCalls = nil
			authMock.Calls = nil
			if tt.expectCall {
				authMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockIdentity, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRequireKinds(t *testing.T) {
	logger := newNoopLogger()
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		identity   *models.Identity
		wantStatus int
	}{
		{"user route without identity", middlewarectx.RequireUser(logger), nil, http.StatusUnauthorized},
		{"user route with user", middlewarectx.RequireUser(logger), ptr(models.UserIdentity(1, "u@x.io")), http.StatusNoContent},
		{"user route with admin", middlewarectx.RequireUser(logger), ptr(models.AdminIdentity(1, "a@x.io")), http.StatusForbidden},
		{"admin route with admin", middlewarectx.RequireAdmin(logger), ptr(models.AdminIdentity(1, "a@x.io")), http.StatusNoContent},
		{"admin route with user", middlewarectx.RequireAdmin(logger), ptr(models.UserIdentity(1, "u@x.io")), http.StatusForbidden},
		{"admin route with zero id", middlewarectx.RequireAdmin(logger), ptr(models.AdminIdentity(0, "a@x.io")), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.identity != nil {
				req = req.WithContext(middlewarectx.WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()

			tt.mw(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	mw := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, calls)
}

func TestIdentityFrom_Empty(t *testing.T) {
	_, ok := middlewarectx.IdentityFrom(context.Background())
	assert.False(t, ok)
}

func ptr[T any](v T) *T { return &v }
