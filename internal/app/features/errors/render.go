// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderPage writes status and renders the shared error page.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Status:  status,
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// jsonError is the body of every API error response.
type jsonError struct {
	Error  string `json:"error"`
	Fields any    `json:"fields,omitempty"`
}

// WriteJSON writes {"error": msg} with status.
func WriteJSON(w http.ResponseWriter, status int, msg string) {
	WriteJSONFields(w, status, msg, nil)
}

// WriteJSONFields is WriteJSON with per-field details (validation errors).
func WriteJSONFields(w http.ResponseWriter, status int, msg string, fields any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: msg, Fields: fields})
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
