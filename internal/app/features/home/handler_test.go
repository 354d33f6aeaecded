package home

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/hekto/internal/testutil"
	"go.uber.org/zap"
)

type fakeProducts struct {
	items []models.Product
	err   error
}

func (f fakeProducts) List(context.Context) ([]models.Product, error) { return f.items, f.err }

func newTestHandler(products productLister) (*Handler, *testutil.RenderRecorder) {
	errLog := &uierrors.ErrorLogger{Log: zap.NewNop(), Render: uierrors.PlainText}
	h := NewHandler(products, func(p string) string {
		if p == "" {
			return ""
		}
		return "/uploads/" + p
	}, 5, errLog, zap.NewNop())
	rr := &testutil.RenderRecorder{}
	h.Render = rr.Render
	return h, rr
}

func TestServeRoot_ShowsBrand(t *testing.T) {
	h, rr := newTestHandler(fakeProducts{})

	h.ServeRoot(testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/"))

	call := rr.Last()
	if call.Name != "home" {
		t.Fatalf("rendered %q, want home", call.Name)
	}
	data := call.Data.(landingData)
	if data.Tagline != viewdata.DefaultBrand.Tagline {
		t.Errorf("Tagline = %q", data.Tagline)
	}
	if data.Description == "" {
		t.Error("Description should be set")
	}
}

func TestServeCatalog_ListsProducts(t *testing.T) {
	h, rr := newTestHandler(fakeProducts{items: []models.Product{
		{Name: "Comfy Chair", Price: 120, Stock: 10, Category: "Chairs", ImagePath: "products/a.jpg"},
		{Name: "Oak Table", Price: 480, Stock: 2},
		{Name: "Floor Lamp", Price: 75.5, Stock: 0, Category: "Lighting"},
	}})

	h.ServeCatalog(testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/catalog"))

	data := rr.Last().Data.(catalogData)
	if len(data.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(data.Items))
	}
	chair := data.Items[0]
	if chair.Price != "$120.00" || chair.Stock != "In stock" || chair.ImageURL != "/uploads/products/a.jpg" {
		t.Errorf("chair = %+v", chair)
	}
	if data.Items[1].Category != models.UncategorizedLabel || data.Items[1].Stock != "Low stock" {
		t.Errorf("table = %+v", data.Items[1])
	}
	if data.Items[2].InStock || data.Items[2].Stock != "Out of stock" {
		t.Errorf("lamp = %+v", data.Items[2])
	}
}

func TestServeCatalog_Search(t *testing.T) {
	h, rr := newTestHandler(fakeProducts{items: []models.Product{
		{Name: "Comfy Chair", Price: 120, Stock: 10},
		{Name: "Oak Table", Price: 480, Stock: 2},
	}})

	h.ServeCatalog(testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/catalog?q=chair"))

	data := rr.Last().Data.(catalogData)
	if data.Query != "chair" {
		t.Errorf("Query = %q", data.Query)
	}
	if len(data.Items) != 1 || data.Items[0].Name != "Comfy Chair" {
		t.Errorf("items = %+v", data.Items)
	}
}

func TestServeCatalog_StoreError(t *testing.T) {
	h, rr := newTestHandler(fakeProducts{err: errors.New("boom")})

	rec := testutil.NewRecorder()
	h.ServeCatalog(rec, testutil.NewRequest(http.MethodGet, "/catalog"))

	rec.AssertStatus(t, http.StatusInternalServerError)
	if len(rr.Calls) != 0 {
		t.Error("catalog should not render on error")
	}
}

func TestServeCatalog_DescriptionSanitized(t *testing.T) {
	h, rr := newTestHandler(fakeProducts{items: []models.Product{
		{Name: "Comfy Chair", Price: 120, Stock: 10, Description: `<p>Soft <strong>velvet</strong></p><script>alert(1)</script>`},
		{Name: "Oak Table", Price: 480, Stock: 2, Description: "Seats 6 & more"},
	}})

	h.ServeCatalog(testutil.NewRecorder(), testutil.NewRequest(http.MethodGet, "/catalog"))

	data := rr.Last().Data.(catalogData)
	if got, want := data.Items[0].Description, template.HTML("<p>Soft <strong>velvet</strong></p>"); got != want {
		t.Errorf("chair description = %q, want %q", got, want)
	}
	if got, want := data.Items[1].Description, template.HTML("Seats 6 &amp; more"); got != want {
		t.Errorf("table description = %q, want %q", got, want)
	}
}
