// Package plancreate реализует создание тарифного плана подписки.
package plancreate

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
	"github.com/magabrotheeeer/storefront/internal/services/subscription"
)

// Request данные тарифного плана.
type Request struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description"`
	Price          string `json:"price" validate:"required,numeric"`
	DurationMonths int    `json:"duration_months" validate:"required,gt=0"`
}

type Service interface {
	CreatePlan(ctx context.Context, actor models.Identity, in subscription.PlanInput) (*models.SubscriptionPlan, error)
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
// @Summary Создать тарифный план
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "План"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.ErrorResponse "План с таким названием уже есть"
// @Router /admin/plans [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.plancreate"

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
	plan, err := h.service.CreatePlan(r.Context(), actor, subscription.PlanInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		log.Error("failed to create plan", sl.Err(err))
		response.Fail(w, r, err, "could not create plan")
		return
	}

	log.Info("plan created", slog.Int64("plan_id", plan.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plan": plan,
	}))
}
