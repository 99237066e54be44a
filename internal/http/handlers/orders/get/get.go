// Package get реализует получение заказа по ID.
package get

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
	Get(ctx context.Context, identity models.Identity, id int64) (*models.Order, error)
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
// @Summary Заказ по ID
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID заказа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.get"

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

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	order, err := h.service.Get(r.Context(), identity, id)
	if err != nil {
		log.Warn("failed to read order", sl.Err(err), slog.Int64("order_id", id))
		response.Fail(w, r, err, "could not read order")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
