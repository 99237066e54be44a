// Package productupdate реализует частичное обновление товара администратором.
// Отсутствующие в запросе поля не меняются.
package productupdate

import (
	"context"
	"encoding/json"
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

// Request изменяемые поля товара.
type Request struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// Patch переводит запрос в models.ProductPatch, разбирая цену.
func (req Request) Patch() (models.ProductPatch, error) {
	patch := models.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	}
	if req.Price != nil {
		price, err := models.ParsePrice(*req.Price)
		if err != nil {
			return models.ProductPatch{}, err
		}
		patch.Price = &price
	}
	return patch, nil
}

type Service interface {
	Update(ctx context.Context, actor models.Identity, id int64, patch models.ProductPatch) (*models.Product, error)
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
// @Summary Изменить товар
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Param request body Request true "Изменения"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/products/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.productupdate"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	patch, err := req.Patch()
	if err != nil {
		log.Error("invalid patch", sl.Err(err))
		response.Fail(w, r, err, "invalid request body")
		return
	}

	actor, _ := middlewarectx.IdentityFrom(r.Context())
	product, err := h.service.Update(r.Context(), actor, id, patch)
	if err != nil {
		log.Error("failed to update product", sl.Err(err), slog.Int64("product_id", id))
		response.Fail(w, r, err, "could not update product")
		return
	}

	log.Info("product updated", slog.Int64("product_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
