// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
)

// Brand is the storefront identity shown in every page header.
type Brand struct {
	Name        string
	Tagline     string
	Description string
}

// DefaultBrand is used until SetBrand is called from bootstrap.
var DefaultBrand = Brand{
	Name:    "Hekto",
	Tagline: "Building the Future of Furniture Shopping",
	Description: "Discover furniture that blends comfort with modern design. " +
		"Hekto brings quality sofas, chairs, tables and lighting to your door.",
}

var (
	brandMu sync.RWMutex
	brand   = DefaultBrand
)

// SetBrand overrides the brand. Empty fields keep their defaults.
func SetBrand(b Brand) {
	brandMu.Lock()
	defer brandMu.Unlock()
	if b.Name != "" {
		brand.Name = b.Name
	}
	if b.Tagline != "" {
		brand.Tagline = b.Tagline
	}
	if b.Description != "" {
		brand.Description = b.Description
	}
}

// CurrentBrand returns the active brand.
func CurrentBrand() Brand {
	brandMu.RLock()
	defer brandMu.RUnlock()
	return brand
}

// Admin sections, used to highlight the sidebar entry.
const (
	SectionDashboard = "dashboard"
	SectionOrders    = "orders"
	SectionProducts  = "products"
)

// BaseVM contains common fields for all view models.
// Embed it in feature view models:
//
//	data := struct {
//	    viewdata.BaseVM
//	    Rows []orderRow
//	}{BaseVM: viewdata.NewBaseVM(r, "Orders", "/admin/dashboard")}
type BaseVM struct {
	SiteName string
	Tagline  string

	IsLoggedIn bool
	UserName   string
	UserEmail  string

	Title       string
	Section     string
	BackURL     string
	CurrentPath string

	// CSRF protection for admin forms
	CSRFToken string
	CSRFField template.HTML

	// One-shot notice after a redirect (?flash=code).
	Flash     string
	FlashKind string

	// Extra script URLs loaded in the page head, such as chart libraries.
	Scripts []string
}

// NewBaseVM creates a populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	b := CurrentBrand()
	vm := BaseVM{
		SiteName:    b.Name,
		Tagline:     b.Tagline,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		CSRFField:   csrf.TemplateField(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserName = u.Name
		vm.UserEmail = u.Email
	}
	vm.Flash, vm.FlashKind = FlashFromRequest(r)
	return vm
}

// NewAdminVM is NewBaseVM with the sidebar section set.
func NewAdminVM(r *http.Request, title, section string) BaseVM {
	vm := NewBaseVM(r, title, "/admin/dashboard")
	vm.Section = section
	return vm
}

/*─────────────────────────────────────────────────────────────────────────────*
| Flash notices                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type flashMsg struct {
	text string
	kind string
}

// Flash codes carried in ?flash= after a POST-redirect-GET.
const (
	FlashProductAdded    = "product_added"
	FlashProductUpdated  = "product_updated"
	FlashProductDeleted  = "product_deleted"
	FlashImageUploaded   = "image_uploaded"
	FlashStatusUpdated   = "status_updated"
	FlashStatusUnchanged = "status_unchanged"
	FlashStatusRejected  = "status_rejected"
	FlashStatusConflict  = "status_conflict"
	FlashOrderDeleted    = "order_deleted"
	FlashBadFilter       = "bad_filter"
	FlashSignedOut       = "signed_out"
)

var flashes = map[string]flashMsg{
	FlashProductAdded:    {"Product added.", "success"},
	FlashProductUpdated:  {"Product updated.", "success"},
	FlashProductDeleted:  {"Product deleted.", "success"},
	FlashImageUploaded:   {"Image uploaded.", "success"},
	FlashStatusUpdated:   {"Order status updated.", "success"},
	FlashStatusUnchanged: {"Order already has that status.", "info"},
	FlashStatusRejected:  {"That status change is not allowed for this order.", "error"},
	FlashStatusConflict:  {"The order changed while you were editing it. Please try again.", "error"},
	FlashOrderDeleted:    {"Order deleted.", "success"},
	FlashBadFilter:       {"Unknown status filter; showing all orders.", "error"},
	FlashSignedOut:       {"You have been signed out.", "info"},
}

// FlashFromRequest maps ?flash=code to its message. Unknown codes are ignored.
func FlashFromRequest(r *http.Request) (text, kind string) {
	code := strings.TrimSpace(query.Get(r, "flash"))
	if m, ok := flashes[code]; ok {
		return m.text, m.kind
	}
	return "", ""
}

// WithFlash appends flash=code to a local redirect target.
func WithFlash(target, code string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "flash=" + code
}

/*─────────────────────────────────────────────────────────────────────────────*
| Rendering                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// RenderFunc renders a named template. Handlers hold one so tests can
// capture the view model without booting the template engine.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// RenderTemplate renders through the shared template engine.
func RenderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// RenderStatus sets status before rendering, for pages such as a login
// form re-shown with an error.
func RenderStatus(render RenderFunc, w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	render(w, r, name, data)
}
