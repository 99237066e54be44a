// Package cancel реализует отмену действующей подписки покупателя.
//
// Отсутствие действующей подписки ошибкой не считается: ответ 200
// с cancelled=false и пояснением.
package cancel

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
	"github.com/magabrotheeeer/storefront/internal/services/subscription"
)

type Service interface {
	Cancel(ctx context.Context, identity models.Identity) (subscription.CancelResult, error)
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
// @Summary Отменить подписку
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /subscriptions/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	res, err := h.service.Cancel(r.Context(), identity)
	if err != nil {
		log.Error("cancel failed", sl.Err(err))
		response.Fail(w, r, err, "could not cancel subscription")
		return
	}

	log.Info("cancel processed", slog.Bool("cancelled", res.Cancelled))
	render.JSON(w, r, response.StatusOKWithData(res))
}
