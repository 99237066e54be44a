// Package orderstatus реализует административные переходы заказа:
// завершение и отмену. Оба действия применимы только к заказу в статусе Pending.
package orderstatus

import (
	"context"
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

// Transition меняет статус заказа от имени администратора.
type Transition func(ctx context.Context, actor models.Identity, id int64) (*models.Order, error)

type Handler struct {
	log        *slog.Logger
	transition Transition
	action     string
}

// New создает Handler для действия action ("complete" или "cancel").
func New(log *slog.Logger, action string, transition Transition) *Handler {
	return &Handler{
		log:        log,
		transition: transition,
		action:     action,
	}
}

// ServeHTTP godoc
// @Summary Завершить или отменить заказ
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID заказа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Заказ не в статусе Pending"
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/orders/{id}/complete [post]
// @Router /admin/orders/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.orderstatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("action", h.action),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	actor, _ := middlewarectx.IdentityFrom(r.Context())
	order, err := h.transition(r.Context(), actor, id)
	if err != nil {
		log.Warn("order transition failed", sl.Err(err), slog.Int64("order_id", id))
		response.Fail(w, r, err, "could not update order")
		return
	}

	log.Info("order status changed", slog.Int64("order_id", id), slog.String("status", string(order.Status)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
