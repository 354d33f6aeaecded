package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/dalemusser/hekto/internal/app/system/auth"
)

// AdminUser returns the signed-in admin used by handler tests.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		Email: "admin@example.com",
		Name:  "admin",
		Role:  auth.RoleAdmin,
	}
}

// WithAdmin adds the test admin to the request context, bypassing the
// session middleware.
func WithAdmin(r *http.Request) *http.Request {
	return auth.WithTestUser(r, AdminUser())
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAdminRequest creates a request with the test admin in context.
func NewAdminRequest(method, target string) *http.Request {
	return WithAdmin(httptest.NewRequest(method, target, nil))
}

// NewFormRequest creates a url-encoded POST with the test admin in context.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithAdmin(req)
}

// NewJSONRequest creates a JSON request with the test admin in context.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return WithAdmin(req)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if loc := r.Header().Get("Location"); loc != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", loc, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// RenderCall is one captured template render.
type RenderCall struct {
	Name string
	Data any
}

// RenderRecorder stands in for the template engine. It records each call
// and writes the template name as the body.
type RenderRecorder struct {
	mu    sync.Mutex
	Calls []RenderCall
}

// Render matches viewdata.RenderFunc.
func (rr *RenderRecorder) Render(w http.ResponseWriter, _ *http.Request, name string, data any) {
	rr.mu.Lock()
	rr.Calls = append(rr.Calls, RenderCall{Name: name, Data: data})
	rr.mu.Unlock()
	_, _ = w.Write([]byte(name))
}

// Last returns the most recent call, or a zero RenderCall.
func (rr *RenderRecorder) Last() RenderCall {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.Calls) == 0 {
		return RenderCall{}
	}
	return rr.Calls[len(rr.Calls)-1]
}
