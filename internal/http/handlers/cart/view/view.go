// Package view реализует просмотр корзины покупателя вместе с итоговой суммой.
package view

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
	"github.com/magabrotheeeer/storefront/internal/services/cart"
)

// Service читает содержимое корзины.
type Service interface {
	Items(ctx context.Context, identity models.Identity) ([]models.CartEntry, error)
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
// @Summary Корзина
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.view"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	items, err := h.service.Items(r.Context(), identity)
	if err != nil {
		log.Error("failed to read cart", sl.Err(err))
		response.Fail(w, r, err, "could not read cart")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": items,
		"total": cart.Total(items),
	}))
}
