// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"html/template"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/charts"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.uber.org/zap"
)

type orderLister interface {
	List(ctx context.Context, status string) ([]models.Order, error)
}

type productLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

type Handler struct {
	Orders       orderLister
	Products     productLister
	Charts       *charts.Renderer
	LowThreshold int
	Now          func() time.Time
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	Render       viewdata.RenderFunc
}

func NewHandler(orders orderLister, products productLister, renderer *charts.Renderer, lowThreshold int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Orders:       orders,
		Products:     products,
		Charts:       renderer,
		LowThreshold: lowThreshold,
		Now:          time.Now,
		Log:          logger,
		ErrLog:       errLog,
		Render:       viewdata.RenderTemplate,
	}
}

// Load fetches every order and product and summarizes them.
func (h *Handler) Load(ctx context.Context) (analytics.Summary, error) {
	orders, err := h.Orders.List(ctx, orderflow.FilterAll)
	if err != nil {
		return analytics.Summary{}, err
	}
	products, err := h.Products.List(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(orders, products, analytics.Options{
		LowStockThreshold: h.LowThreshold,
		Now:               h.Now().UTC(),
	}), nil
}

type metricCard struct {
	Label string
	Value string
	Note  string
}

type recentRow struct {
	ID          string
	Customer    string
	Date        string
	Total       string
	Items       int
	Status      string
	StatusClass string
}

type lowStockRow struct {
	ID    string
	Name  string
	Stock int
}

type dashboardData struct {
	viewdata.BaseVM
	Cards        []metricCard
	StatusChart  template.HTML
	CategoryBars template.HTML
	RevenueLine  template.HTML
	Recent       []recentRow
	LowStock     []lowStockRow
}

// ServeDashboard handles GET /admin/dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.Load(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load dashboard data", err, "Could not load dashboard figures.", "/")
		return
	}

	data := dashboardData{
		BaseVM: viewdata.NewAdminVM(r, "Dashboard", viewdata.SectionDashboard),
		Cards:  cards(s),
	}
	for _, o := range s.RecentOrders {
		st := orderflow.Current(o.Status)
		data.Recent = append(data.Recent, recentRow{
			ID:          o.ID.Hex(),
			Customer:    o.FullName,
			Date:        format.Date(o.OrderDate),
			Total:       format.Money(o.TotalPrice),
			Items:       o.ItemCount(),
			Status:      format.StatusLabel(st),
			StatusClass: format.StatusClass(st),
		})
	}
	for _, p := range s.LowStock {
		data.LowStock = append(data.LowStock, lowStockRow{ID: p.ID.Hex(), Name: p.Name, Stock: p.Stock})
	}

	// A chart that fails is logged and left blank; the cards still render.
	data.Scripts = h.Charts.Scripts()
	if data.StatusChart, err = h.Charts.StatusPie(s.ByStatus); err != nil {
		h.Log.Warn("render status chart", zap.Error(err))
	}
	if data.CategoryBars, err = h.Charts.CategoryBars(s.ByCategory); err != nil {
		h.Log.Warn("render category chart", zap.Error(err))
	}
	if data.RevenueLine, err = h.Charts.RevenueLine(s.DailyRevenue); err != nil {
		h.Log.Warn("render revenue chart", zap.Error(err))
	}

	h.Render(w, r, "admin_dashboard", data)
}

func cards(s analytics.Summary) []metricCard {
	return []metricCard{
		{Label: "Total Orders", Value: format.Count(s.TotalOrders)},
		{Label: "Pending Orders", Value: format.Count(s.PendingOrders)},
		{Label: "Total Products", Value: format.Count(s.TotalProducts)},
		{Label: "Low Stock Items", Value: format.Count(s.LowStockItems), Note: "below " + format.Count(s.LowStockThreshold) + " units"},
		{Label: "Total Revenue", Value: format.Money(s.TotalRevenue)},
		{Label: "Net Revenue", Value: format.Money(s.NetRevenue), Note: "excludes cancelled orders and discounts"},
		{Label: "Average Order", Value: format.Money(s.AverageOrderValue)},
		{Label: "Inventory Value", Value: format.Money(s.InventoryValue)},
	}
}
