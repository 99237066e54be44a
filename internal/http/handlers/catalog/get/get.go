// Package get реализует HTTP-обработчик карточки товара по ID.
//
// Неактивный товар для покупателя не существует, в ответ приходит 404.
package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает чтение товара.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Product, error)
}

// Handler обрабатывает запросы на получение товара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Карточка товара
// @Tags Catalog
// @Produce  json
// @Param id path int true "ID товара"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.get"

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

	product, err := h.service.Get(r.Context(), id)
	if err == nil && !product.IsActive {
		err = models.NewError(models.ErrNotFound, "product not found")
	}
	if err != nil {
		log.Error("failed to read product", sl.Err(err), slog.Int64("product_id", id))
		response.Fail(w, r, err, "could not read product")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
