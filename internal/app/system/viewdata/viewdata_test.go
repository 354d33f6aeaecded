package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
)

func TestWithFlash(t *testing.T) {
	if got := viewdata.WithFlash("/admin/orders", viewdata.FlashOrderDeleted); got != "/admin/orders?flash=order_deleted" {
		t.Errorf("got %q", got)
	}
	if got := viewdata.WithFlash("/admin/orders?status=pending", viewdata.FlashStatusUpdated); got != "/admin/orders?status=pending&flash=status_updated" {
		t.Errorf("got %q", got)
	}
}

func TestFlashFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/products?flash=product_added", nil)
	text, kind := viewdata.FlashFromRequest(req)
	if text != "Product added." || kind != "success" {
		t.Errorf("flash = %q/%q", text, kind)
	}

	req = httptest.NewRequest("GET", "/admin/products?flash=<script>", nil)
	if text, _ := viewdata.FlashFromRequest(req); text != "" {
		t.Errorf("unknown code should be ignored, got %q", text)
	}
}

func TestNewAdminVM(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{Name: "admin", Email: "admin@example.com", Role: auth.RoleAdmin})

	vm := viewdata.NewAdminVM(req, "Orders", viewdata.SectionOrders)
	if !vm.IsLoggedIn || vm.UserEmail != "admin@example.com" {
		t.Errorf("user fields = %+v", vm)
	}
	if vm.Section != viewdata.SectionOrders || vm.Title != "Orders" {
		t.Errorf("page fields = %+v", vm)
	}
	if vm.SiteName == "" {
		t.Error("expected brand name")
	}
}
