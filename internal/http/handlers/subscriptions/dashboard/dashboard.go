// Package dashboard реализует кабинет подписок: действующая подписка и история.
package dashboard

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
	Dashboard(ctx context.Context, identity models.Identity) (subscription.Dashboard, error)
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
// @Summary Кабинет подписок
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /subscriptions/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, _ := middlewarectx.IdentityFrom(r.Context())
	dash, err := h.service.Dashboard(r.Context(), identity)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		response.Fail(w, r, err, "could not load subscriptions")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(dash))
}
