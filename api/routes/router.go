package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/code-with-shadow/adhunik-art/api/controllers"
	"github.com/code-with-shadow/adhunik-art/api/middleware"
	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Health    *controllers.Health
	Paintings *controllers.Paintings
	Orders    *controllers.Orders
	Checkout  *controllers.Checkout
}

// New assembles the HTTP router: probes and metrics outside the API prefix,
// public catalog reads, authenticated checkout/order routes, and the admin
// group guarded by the role claim.
func New(jwtCfg config.JWTConfig, ctrl Controllers, gatherer prometheus.Gatherer, logg *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())

	r.Get("/healthz/live", ctrl.Health.Live)
	r.Get("/healthz/ready", ctrl.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/paintings", ctrl.Paintings.List)
		r.Get("/paintings/{id}", ctrl.Paintings.Get)
		r.Post("/paintings/lookup", ctrl.Paintings.Lookup)
		r.Post("/paintings/{id}/like", ctrl.Paintings.Like)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtCfg, logg))

			r.Post("/checkout/verify", ctrl.Checkout.Verify)
			r.Post("/checkout/cod", ctrl.Checkout.PlaceCOD)
			r.Get("/orders", ctrl.Orders.Mine)
			r.Get("/orders/{id}", ctrl.Orders.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtCfg, logg))
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

			r.Post("/paintings", ctrl.Paintings.Create)
			r.Patch("/paintings/{id}", ctrl.Paintings.Update)
			r.Get("/admin/orders", ctrl.Orders.ListAll)
			r.Patch("/admin/orders/{id}", ctrl.Orders.UpdateStatus)
		})
	})

	return r
}
