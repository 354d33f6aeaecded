package products

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/search"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /admin/products.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, productFormVM{})
}

// renderList shows the table and the add form. Stats always cover the
// whole catalogue; ?q= only narrows the rows.
func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, form productFormVM) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Products.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list products", err, "Could not load products.", "/admin/dashboard")
		return
	}

	q := strings.TrimSpace(query.Get(r, "q"))
	shown := all
	if q != "" {
		shown = search.Products(all, q)
	}

	data := listData{
		BaseVM:        viewdata.NewAdminVM(r, "Products", viewdata.SectionProducts),
		Stats:         statsFrom(all),
		Query:         q,
		Form:          form,
		UploadEnabled: h.Images != nil,
	}
	for _, p := range shown {
		data.Rows = append(data.Rows, productRow{
			ID:         p.ID.Hex(),
			Name:       p.Name,
			Price:      format.Money(p.Price),
			Category:   p.CategoryOrDefault(),
			Stock:      p.Stock,
			StockLabel: format.StockLabel(p.Stock, h.LowThreshold),
			LowStock:   analytics.IsLowStock(p, h.LowThreshold),
			ImageURL:   h.imageURL(p.ImagePath),
		})
	}

	if status == http.StatusOK {
		h.Render(w, r, "admin_products", data)
		return
	}
	viewdata.RenderStatus(h.Render, w, r, status, "admin_products", data)
}
