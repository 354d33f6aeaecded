// internal/app/features/orders/routes.go
package orders

import (
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin order pages, typically at /admin/orders.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)
	r.Post("/{id}/status", h.HandleStatus)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
