// Package add реализует добавление товара в корзину.
//
// Каждое добавление создаёт отдельную запись с ценой на момент добавления.
package add

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
)

// Request товар, который нужно положить в корзину.
type Request struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// Service добавляет товар в корзину.
type Service interface {
	Add(ctx context.Context, identity models.Identity, productID int64) (models.CartEntry, error)
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
// @Summary Добавить товар в корзину
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Товар"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 409 {object} response.ErrorResponse "Нет на складе"
// @Router /cart/items [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.add"

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

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	entry, err := h.service.Add(r.Context(), identity, req.ProductID)
	if err != nil {
		log.Warn("failed to add to cart", sl.Err(err), slog.Int64("product_id", req.ProductID))
		response.Fail(w, r, err, "could not add product to cart")
		return
	}

	log.Info("product added to cart", slog.Int64("product_id", entry.ProductID), slog.String("line_id", entry.LineID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entry":   entry,
		"message": entry.Title + " added to cart",
	}))
}
