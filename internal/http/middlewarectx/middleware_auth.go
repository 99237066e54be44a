// Package middlewarectx содержит HTTP middleware для аутентификации и ограничения частоты запросов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
// и в случае успеха кладёт в контекст запроса models.Identity. RequireUser и
// RequireAdmin дополнительно ограничивают маршруты по виду учётной записи.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type identityKey struct{}

// Validator описывает сервис, проверяющий JWT токен.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (models.Identity, error)
}

// WithIdentity возвращает контекст с Identity аутентифицированного клиента.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom достаёт Identity из контекста запроса.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(models.Identity)
	return identity, ok
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Если токен валиден, добавляет Identity в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(auth Validator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			identity, err := auth.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireUser пропускает только покупателей.
func RequireUser(log *slog.Logger) func(http.Handler) http.Handler {
	return require(log, "user access required", models.Identity.IsUser)
}

// RequireAdmin пропускает только администратора.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return require(log, "admin access required", models.Identity.IsAdmin)
}

func require(log *slog.Logger, msg string, allowed func(models.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				log.Error("identity missing in request context",
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if !allowed(identity) {
				log.Warn("access denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("kind", string(identity.Kind)),
					slog.Int64("id", identity.ID),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
