// Package userdelete реализует удаление покупателя администратором.
// Заказы и подписки покупателя удаляются каскадно.
package userdelete

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	DeleteUser(ctx context.Context, actor models.Identity, userID int64) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить покупателя
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID покупателя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userdelete"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	actor, _ := middlewarectx.IdentityFrom(r.Context())
	if err := h.service.DeleteUser(r.Context(), actor, id); err != nil {
		log.Error("failed to delete user", sl.Err(err), slog.Int64("user_id", id))
		response.Fail(w, r, err, "could not delete user")
		return
	}

	log.Info("user deleted", slog.Int64("user_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "user deleted",
	}))
}
