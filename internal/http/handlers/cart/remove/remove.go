// Package remove реализует удаление одной записи корзины по line_id.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	Remove(ctx context.Context, identity models.Identity, lineID string) error
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
// @Summary Удалить запись из корзины
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Param line_id path string true "ID записи"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /cart/items/{line_id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.remove"

	lineID := chi.URLParam(r, "line_id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("line_id", lineID),
	)

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	if err := h.service.Remove(r.Context(), identity, lineID); err != nil {
		log.Warn("failed to remove cart entry", sl.Err(err))
		response.Fail(w, r, err, "could not remove cart entry")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "item removed from cart",
	}))
}
