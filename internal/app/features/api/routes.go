// internal/app/features/api/routes.go
package api

import (
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the JSON API, typically at /api.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/orders", h.HandleCreateOrder)

	r.Route("/admin", func(r chi.Router) {
		r.Use(sm.RequireAdmin)

		r.Get("/metrics", h.ServeMetrics)

		r.Get("/products", h.ServeProducts)
		r.Post("/products", h.HandleCreateProduct)
		r.Get("/products/{id}", h.ServeProduct)
		r.Put("/products/{id}", h.HandleUpdateProduct)
		r.Delete("/products/{id}", h.HandleDeleteProduct)

		r.Get("/orders", h.ServeOrders)
		r.Get("/orders/{id}", h.ServeOrder)
		r.Patch("/orders/{id}/status", h.HandleOrderStatus)
		r.Delete("/orders/{id}", h.HandleDeleteOrder)
	})
	return r
}
