// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/hekto/internal/app/system/viewdata"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler serves the standalone error pages. No DB needed.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders the 404 page. Mounted as the router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		WriteJSON(w, http.StatusNotFound, "not found")
		return
	}
	RenderPage(w, r, http.StatusNotFound, "Page not found", "We couldn't find the page you were looking for.", "/")
}

// MethodNotAllowed renders a 405.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		WriteJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	RenderPage(w, r, http.StatusMethodNotAllowed, "Not allowed", "That action isn't available here.", "/")
}
