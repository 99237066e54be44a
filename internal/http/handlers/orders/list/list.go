// Package list реализует список заказов: покупателю свои, администратору все.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	List(ctx context.Context, identity models.Identity) ([]models.Order, error)
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
// @Summary Список заказов
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	orders, err := h.service.List(r.Context(), identity)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		response.Fail(w, r, err, "could not list orders")
		return
	}

	log.Info("orders listed", slog.Int("count", len(orders)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"orders": orders,
	}))
}
