// Package checkout реализует оформление заказа из корзины покупателя.
//
// Если хотя бы одного товара не хватает на складе, заказ не создаётся,
// корзина остаётся нетронутой, а в ответ приходит 409 с названием товара.
package checkout

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

// Service оформляет заказ.
type Service interface {
	Checkout(ctx context.Context, identity models.Identity) (*models.Order, error)
}

// Handler обрабатывает оформление заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Корзина пуста"
// @Failure 409 {object} response.ErrorResponse "Недостаточно товара"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	order, err := h.service.Checkout(r.Context(), identity)
	if err != nil {
		log.Warn("checkout failed", sl.Err(err))
		response.Fail(w, r, err, "could not place order")
		return
	}

	log.Info("order placed", slog.Int64("order_id", order.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order":   order,
		"message": "order placed successfully",
	}))
}
