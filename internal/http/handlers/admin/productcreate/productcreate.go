// Package productcreate реализует добавление товара администратором.
//
// Цена передаётся строкой ("19.99") и разбирается как десятичное число,
// чтобы не терять копейки на float.
package productcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

// Request данные нового товара.
type Request struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"required"`
	Price       string  `json:"price" validate:"required,numeric"`
	Image       *string `json:"image,omitempty"`
	Stock       int     `json:"stock" validate:"min=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type Service interface {
	Create(ctx context.Context, actor models.Identity, in catalog.ProductInput) (*models.Product, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить товар
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Товар"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /admin/products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.productcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actor, _ := middlewarectx.IdentityFrom(r.Context())
	product, err := h.service.Create(r.Context(), actor, catalog.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		response.Fail(w, r, err, "could not create product")
		return
	}

	log.Info("product created", slog.Int64("product_id", product.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
