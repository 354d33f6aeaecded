// internal/app/features/products/routes.go
package products

import (
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin product pages, typically at /admin/products.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireAdmin)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}", h.HandleUpdate)
	r.Post("/{id}/delete", h.HandleDelete)
	r.Post("/{id}/image", h.HandleImage)
	return r
}
