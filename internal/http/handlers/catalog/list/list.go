// Package list реализует выдачу витрины: только активные товары.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service возвращает активные товары каталога.
type Service interface {
	List(ctx context.Context) ([]models.Product, error)
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
// @Summary Витрина магазина
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	products, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		response.Fail(w, r, err, "could not load products")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"products": products,
	}))
}
