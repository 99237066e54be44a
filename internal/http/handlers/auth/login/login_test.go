package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Authenticate(ctx context.Context, email, password string) (models.Identity, string, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(models.Identity)
	return identity, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	tests := []struct {
		name           string
		requestBody    any
		mockIdentity   models.Identity
		mockToken      string
		mockErr        error
		expectCall     bool
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "ann@shop.test", Password: "Passw0rdX"},
			mockIdentity:   models.UserIdentity(3, "ann@shop.test"),
			mockToken:      "tok",
			expectCall:     true,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token": "tok",
				"kind":  "user",
				"email": "ann@shop.test",
			},
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "ann@shop.test"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "ann@shop.test", Password: "bad"},
			mockErr:        models.NewError(models.ErrAuth, "invalid email or password"),
			expectCall:     true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid email or password",
			wantStatus:     "Error",
		},
		{
			name:           "admin email on user login",
			requestBody:    Request{Email: "admin@shop.test", Password: "Adm1nPassword"},
			mockErr:        models.NewError(models.ErrAuth, "use the admin login"),
			expectCall:     true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "use the admin login",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.expectCall {
				r := tt.requestBody.(Request)
				authMock.On("Authenticate", mock.Anything, r.Email, r.Password).
					Return(tt.mockIdentity, tt.mockToken, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			} else {
				assert.Nil(t, got["data"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
