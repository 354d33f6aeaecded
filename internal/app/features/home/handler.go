// internal/app/features/home/handler.go
package home

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hekto/internal/app/system/search"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type productLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// Handler serves the public storefront: the landing page and the catalogue.
type Handler struct {
	Products     productLister
	ImageURL     func(string) string
	LowThreshold int
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	Render       viewdata.RenderFunc
}

func NewHandler(products productLister, imageURL func(string) string, lowThreshold int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if imageURL == nil {
		imageURL = func(s string) string { return s }
	}
	if lowThreshold <= 0 {
		lowThreshold = analytics.DefaultLowStockThreshold
	}
	return &Handler{
		Products:     products,
		ImageURL:     imageURL,
		LowThreshold: lowThreshold,
		Log:          logger,
		ErrLog:       errLog,
		Render:       viewdata.RenderTemplate,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type landingData struct {
	viewdata.BaseVM
	Description string
}

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "home", landingData{
		BaseVM:      viewdata.NewBaseVM(r, "", "/"),
		Description: viewdata.CurrentBrand().Description,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /catalog                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

type catalogItem struct {
	Name        string
	Description template.HTML
	Price       string
	Category    string
	Stock       string
	InStock     bool
	ImageURL    string
}

type catalogData struct {
	viewdata.BaseVM
	Query string
	Items []catalogItem
}

func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list products for catalog", err, "Could not load the catalogue.", "/")
		return
	}

	q := strings.TrimSpace(query.Get(r, "q"))
	if q != "" {
		products = search.Products(products, q)
	}

	h.Render(w, r, "catalog", catalogData{
		BaseVM: viewdata.NewBaseVM(r, "Catalog", "/"),
		Query:  q,
		Items:  h.catalogItems(products),
	})
}

func (h *Handler) catalogItems(products []models.Product) []catalogItem {
	items := make([]catalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, catalogItem{
			Name:        p.Name,
			Description: htmlsanitize.SanitizeToHTML(p.Description),
			Price:       format.Money(p.Price),
			Category:    p.CategoryOrDefault(),
			Stock:       format.StockLabel(p.Stock, h.LowThreshold),
			InStock:     p.Stock > 0,
			ImageURL:    h.ImageURL(p.ImagePath),
		})
	}
	return items
}
