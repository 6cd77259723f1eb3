// Package httpapi exposes the ordering services over REST.
package httpapi

import (
	"context"
	"net/http"

	"myfood-be/internal/catalog"
	"myfood-be/internal/checkout"
	"myfood-be/internal/logger"
	"myfood-be/internal/metrics"
	appmw "myfood-be/internal/middleware"
	"myfood-be/internal/order"
	"myfood-be/internal/slot"
	"myfood-be/internal/user"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Resetter runs the daily slot reset on demand.
type Resetter interface {
	RunReset(ctx context.Context) error
}

type Deps struct {
	Catalog  catalog.Service
	Slots    slot.Service
	Orders   order.Service
	Checkout checkout.Service
	Resetter Resetter
	Metrics  *metrics.Registry
	Checks   map[string]HealthCheck
}

type API struct {
	catalog  catalog.Service
	slots    slot.Service
	orders   order.Service
	checkout checkout.Service
	resetter Resetter
	metrics  *metrics.Registry
	checks   map[string]HealthCheck
}

func New(d Deps) *API {
	if d.Metrics == nil {
		d.Metrics = metrics.NewRegistry()
	}
	return &API{
		catalog:  d.Catalog,
		slots:    d.Slots,
		orders:   d.Orders,
		checkout: d.Checkout,
		resetter: d.Resetter,
		metrics:  d.Metrics,
		checks:   d.Checks,
	}
}

// Routes mounts every endpoint under /api/v1. A nil limiter disables rate
// limiting.
func (a *API) Routes(secret []byte, limiter *appmw.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(appmw.Auth(secret))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	admin := appmw.RequireRole(user.RoleAdmin)
	kitchen := appmw.RequireRole(user.RoleAdmin, user.RoleChef)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.healthHandler)
		r.Get("/metrics", a.metricsHandler)

		// Catalog
		r.Get("/dishes/visible", a.visibleDishesHandler)
		r.Get("/dishes/visible/category/{category}", a.visibleDishesByCategoryHandler)
		r.Get("/dishes/visible/attribute/{attribute}", a.visibleDishesByAttributeHandler)
		r.Get("/menus/visible", a.visibleMenusHandler)
		r.Get("/dish/{id}", a.getDishHandler)
		r.Get("/menu/{id}", a.getMenuHandler)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/dishes", a.listDishesHandler)
			r.Get("/dish/name/{name}", a.findDishByNameHandler)
			r.Post("/dish", a.createDishHandler)
			r.Put("/dish/{id}/visibility", a.setDishVisibilityHandler)
			r.Post("/dish/{id}/attribute/{attribute}", a.tagDishHandler)
			r.Get("/menus", a.listMenusHandler)
			r.Post("/menu", a.createMenuHandler)
			r.Put("/menu/{id}/visibility", a.setMenuVisibilityHandler)
		})

		// Slots
		r.Get("/slots/available", a.availableSlotsHandler)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/slots", a.listSlotsHandler)
			r.Get("/slot/{id}", a.getSlotHandler)
			r.Post("/slot", a.createSlotHandler)
			r.Post("/slots/reset", a.resetSlotsHandler)
		})

		// Orders
		r.Group(func(r chi.Router) {
			r.Use(appmw.RequireAuth)
			r.Post("/order/{userId}", a.createOrderHandler)
			r.Get("/orders/user/{userId}", a.userOrdersHandler)
			r.Post("/order/{orderId}/dish/{dishId}", a.addDishHandler)
			r.Delete("/order/{orderId}/dish/{dishId}", a.removeDishHandler)
			r.Post("/order/{orderId}/menu/{menuId}", a.addMenuHandler)
			r.Delete("/order/{orderId}/menu/{menuId}", a.removeMenuHandler)
			r.Put("/order/finish/{orderId}/{slotId}", a.finalizeHandler)
		})
		r.Group(func(r chi.Router) {
			r.Use(kitchen)
			r.Get("/orders/chef", a.kitchenQueueHandler)
			r.Get("/orders/pending", a.pendingOrdersHandler)
			r.Put("/order/{id}/maked", a.markFulfilledHandler)
		})
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/order/{id}", a.getOrderHandler)
			r.Get("/orders/date", a.ordersByDateHandler)
			r.Put("/order/finish/{orderId}/{slotId}/{price}", a.finalizeWithPriceHandler)
		})
	})

	return r
}
