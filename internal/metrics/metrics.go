// Package metrics содержит Prometheus-метрики магазина.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов приложения. Методы учёта допускают nil-получатель.
type Metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	ordersPlaced    prometheus.Counter
	orderRevenue    prometheus.Counter
	subscriptions   *prometheus.CounterVec
	checkoutsFailed *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_placed_total",
			Help:      "Orders created by checkout.",
		}),
		orderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_revenue_total",
			Help:      "Sum of order totals created by checkout.",
		}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "subscription_events_total",
			Help:      "Subscription lifecycle events.",
		}, []string{"event"}),
		checkoutsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkouts_failed_total",
			Help:      "Failed checkouts by reason.",
		}, []string{"reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cache_lookups_total",
			Help:      "Product cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.duration, m.ordersPlaced, m.orderRevenue,
		m.subscriptions, m.checkoutsFailed, m.cacheLookups)
	return m
}

// OrderPlaced учитывает оформленный заказ на сумму total.
func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderRevenue.Add(total)
}

// CheckoutFailed учитывает неудачное оформление заказа.
func (m *Metrics) CheckoutFailed(reason string) {
	if m == nil {
		return
	}
	m.checkoutsFailed.WithLabelValues(reason).Inc()
}

// SubscriptionEvent учитывает событие подписки (created, cancelled, reminded).
func (m *Metrics) SubscriptionEvent(event string) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(event).Inc()
}

// CacheLookup учитывает попадание или промах кэша.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Middleware считает запросы и их длительность по шаблону маршрута chi.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
