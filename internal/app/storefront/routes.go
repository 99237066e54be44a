package storefront

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/orderstatus"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/plancreate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/productcreate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/productlist"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/productupdate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/admin/userdelete"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/adminlogin"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/cart/add"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/cart/remove"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/cart/view"
	productget "github.com/magabrotheeeer/storefront/internal/http/handlers/catalog/get"
	productsearch "github.com/magabrotheeeer/storefront/internal/http/handlers/catalog/list"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/health"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/orders/checkout"
	orderget "github.com/magabrotheeeer/storefront/internal/http/handlers/orders/get"
	orderlist "github.com/magabrotheeeer/storefront/internal/http/handlers/orders/list"
	subcancel "github.com/magabrotheeeer/storefront/internal/http/handlers/subscriptions/cancel"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/subscriptions/dashboard"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/subscriptions/plans"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/subscriptions/subscribe"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// AuthService операции учётных записей, нужные маршрутам.
type AuthService interface {
	register.Service
	login.Service
	adminlogin.Service
	userdelete.Service
	middlewarectx.Validator
}

// CatalogService операции каталога.
type CatalogService interface {
	productsearch.Service
	productget.Service
	productlist.Service
	productcreate.Service
	productupdate.Service
}

// CartService операции корзины.
type CartService interface {
	view.Service
	add.Service
	remove.Service
}

// OrderService операции заказов.
type OrderService interface {
	checkout.Service
	orderlist.Service
	orderget.Service
	Complete(ctx context.Context, actor models.Identity, id int64) (*models.Order, error)
	Cancel(ctx context.Context, actor models.Identity, id int64) (*models.Order, error)
}

// SubscriptionService операции подписок.
type SubscriptionService interface {
	plans.Service
	subscribe.Service
	subcancel.Service
	dashboard.Service
	plancreate.Service
}

// Services сервисы, которые обслуживают маршруты API.
type Services struct {
	Auth         AuthService
	Catalog      CatalogService
	Cart         CartService
	Orders       OrderService
	Subscription SubscriptionService
	Metrics      *metrics.Metrics
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, httpCfg config.HTTPServer, db health.Pinger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Get("/products", productsearch.New(logger, s.Catalog).ServeHTTP)
		r.Get("/products/{id}", productget.New(logger, s.Catalog).ServeHTTP)
		r.Get("/subscriptions/plans", plans.New(logger, s.Subscription).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, httpCfg.LoginRate, httpCfg.LoginBurst))
			r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
			r.Post("/admin/login", adminlogin.New(logger, s.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/orders", orderlist.New(logger, s.Orders).ServeHTTP)
			r.Get("/orders/{id}", orderget.New(logger, s.Orders).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireUser(logger))
				r.Get("/cart", view.New(logger, s.Cart).ServeHTTP)
				r.Post("/cart/items", add.New(logger, s.Cart).ServeHTTP)
				r.Delete("/cart/items/{line_id}", remove.New(logger, s.Cart).ServeHTTP)
				r.Post("/checkout", checkout.New(logger, s.Orders).ServeHTTP)
				r.Post("/subscriptions", subscribe.New(logger, s.Subscription).ServeHTTP)
				r.Post("/subscriptions/cancel", subcancel.New(logger, s.Subscription).ServeHTTP)
				r.Get("/subscriptions/dashboard", dashboard.New(logger, s.Subscription).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Get("/admin/products", productlist.New(logger, s.Catalog).ServeHTTP)
				r.Post("/admin/products", productcreate.New(logger, s.Catalog).ServeHTTP)
				r.Patch("/admin/products/{id}", productupdate.New(logger, s.Catalog).ServeHTTP)
				r.Post("/admin/orders/{id}/complete", orderstatus.New(logger, "complete", s.Orders.Complete).ServeHTTP)
				r.Post("/admin/orders/{id}/cancel", orderstatus.New(logger, "cancel", s.Orders.Cancel).ServeHTTP)
				r.Post("/admin/plans", plancreate.New(logger, s.Subscription).ServeHTTP)
				r.Delete("/admin/users/{id}", userdelete.New(logger, s.Auth).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
