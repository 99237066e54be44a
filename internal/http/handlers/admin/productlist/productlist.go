// Package productlist реализует административный список всех товаров, включая скрытые.
package productlist

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
	ListAll(ctx context.Context, actor models.Identity) ([]models.Product, error)
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
// @Summary Все товары
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.productlist"

	actor, _ := middlewarectx.IdentityFrom(r.Context())
	products, err := h.service.ListAll(r.Context(), actor)
	if err != nil {
		h.log.Error("failed to list products",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.Fail(w, r, err, "could not load products")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"products": products,
	}))
}
