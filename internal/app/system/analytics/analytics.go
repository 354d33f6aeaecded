// Package analytics computes the admin dashboard figures from order and
// product records held in memory. Nothing here touches the database; the
// dashboard handler, the metrics API and hektoctl all load records through
// the stores and hand them over.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/domain/models"
)

// DefaultLowStockThreshold marks a product as low on stock below five units.
const DefaultLowStockThreshold = 5

// DefaultRecentOrders is how many orders the activity list shows.
const DefaultRecentOrders = 5

// DefaultRevenueDays is the width of the daily revenue series.
const DefaultRevenueDays = 14

// Options tunes Summarize. Zero values fall back to the defaults above.
type Options struct {
	LowStockThreshold int
	RecentOrders      int
	RevenueDays       int
	Now               time.Time
}

func (o Options) withDefaults() Options {
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = DefaultLowStockThreshold
	}
	if o.RecentOrders <= 0 {
		o.RecentOrders = DefaultRecentOrders
	}
	if o.RevenueDays <= 0 {
		o.RevenueDays = DefaultRevenueDays
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	return o
}

// StatusCount is one slice of the orders-by-status breakdown.
type StatusCount struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// CategoryStat aggregates products within one category.
type CategoryStat struct {
	Category       string  `json:"category"`
	Products       int     `json:"products"`
	Units          int     `json:"units"`
	InventoryValue float64 `json:"inventory_value"`
}

// DailyRevenue is the order total for one calendar day (UTC).
type DailyRevenue struct {
	Day     time.Time `json:"day"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

// Summary is everything the dashboard shows.
type Summary struct {
	TotalOrders       int              `json:"total_orders"`
	PendingOrders     int              `json:"pending_orders"`
	TotalProducts     int              `json:"total_products"`
	LowStockItems     int              `json:"low_stock_items"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	TotalRevenue      float64          `json:"total_revenue"`
	TotalDiscounts    float64          `json:"total_discounts"`
	NetRevenue        float64          `json:"net_revenue"`
	AverageOrderValue float64          `json:"average_order_value"`
	InventoryValue    float64          `json:"inventory_value"`
	ByStatus          []StatusCount    `json:"by_status"`
	ByCategory        []CategoryStat   `json:"by_category"`
	DailyRevenue      []DailyRevenue   `json:"daily_revenue"`
	RecentOrders      []models.Order   `json:"recent_orders"`
	LowStock          []models.Product `json:"low_stock"`
}

// Summarize computes the dashboard summary.
//
// TotalRevenue sums total_price over every order, cancelled ones included.
// NetRevenue leaves cancelled orders out and subtracts discounts.
func Summarize(orders []models.Order, products []models.Product, opts Options) Summary {
	opts = opts.withDefaults()

	s := Summary{
		TotalOrders:       len(orders),
		TotalProducts:     len(products),
		LowStockThreshold: opts.LowStockThreshold,
	}

	byStatus := make(map[string]*StatusCount, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		byStatus[st] = &StatusCount{Status: st}
	}

	for _, o := range orders {
		st := orderflow.Current(o.Status)
		s.TotalRevenue += o.TotalPrice
		s.TotalDiscounts += o.Discount
		if st != models.OrderCancelled {
			s.NetRevenue += o.TotalPrice - o.Discount
		}
		if st == models.OrderPending {
			s.PendingOrders++
		}
		sc, ok := byStatus[st]
		if !ok {
			sc = &StatusCount{Status: st}
			byStatus[st] = sc
		}
		sc.Count++
		sc.Revenue += o.TotalPrice
	}
	if len(orders) > 0 {
		s.AverageOrderValue = round2(s.TotalRevenue / float64(len(orders)))
	}

	for _, st := range models.OrderStatuses {
		s.ByStatus = append(s.ByStatus, *byStatus[st])
		delete(byStatus, st)
	}
	// unknown statuses from imported data go last, sorted for stable output
	extra := make([]string, 0, len(byStatus))
	for st := range byStatus {
		extra = append(extra, st)
	}
	sort.Strings(extra)
	for _, st := range extra {
		s.ByStatus = append(s.ByStatus, *byStatus[st])
	}

	for _, p := range products {
		s.InventoryValue += p.InventoryValue()
		if IsLowStock(p, opts.LowStockThreshold) {
			s.LowStockItems++
			s.LowStock = append(s.LowStock, p)
		}
	}
	sort.SliceStable(s.LowStock, func(i, j int) bool { return s.LowStock[i].Stock < s.LowStock[j].Stock })

	s.ByCategory = CategoryBreakdown(products)
	s.DailyRevenue = RevenueByDay(orders, opts.Now, opts.RevenueDays)
	s.RecentOrders = RecentOrders(orders, opts.RecentOrders)

	s.TotalRevenue = round2(s.TotalRevenue)
	s.TotalDiscounts = round2(s.TotalDiscounts)
	s.NetRevenue = round2(s.NetRevenue)
	s.InventoryValue = round2(s.InventoryValue)
	return s
}

// IsLowStock reports whether a product has fewer than threshold units.
func IsLowStock(p models.Product, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return p.Stock < threshold
}

// CategoryBreakdown groups products by category, largest inventory value
// first. Products without a category are grouped as Uncategorized.
func CategoryBreakdown(products []models.Product) []CategoryStat {
	idx := map[string]int{}
	var out []CategoryStat
	for _, p := range products {
		c := p.CategoryOrDefault()
		i, ok := idx[c]
		if !ok {
			i = len(out)
			idx[c] = i
			out = append(out, CategoryStat{Category: c})
		}
		out[i].Products++
		if p.Stock > 0 {
			out[i].Units += p.Stock
		}
		out[i].InventoryValue += p.InventoryValue()
	}
	for i := range out {
		out[i].InventoryValue = round2(out[i].InventoryValue)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].InventoryValue != out[j].InventoryValue {
			return out[i].InventoryValue > out[j].InventoryValue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// RevenueByDay returns one entry per day for the last `days` days ending
// on now's date, oldest first. Days without orders are present with zero.
func RevenueByDay(orders []models.Order, now time.Time, days int) []DailyRevenue {
	if days <= 0 {
		return nil
	}
	end := truncateDay(now)
	start := end.AddDate(0, 0, -(days - 1))

	out := make([]DailyRevenue, days)
	for i := range out {
		out[i].Day = start.AddDate(0, 0, i)
	}
	for _, o := range orders {
		d := truncateDay(o.OrderDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		i := int(d.Sub(start).Hours() / 24)
		if i < 0 || i >= days {
			continue
		}
		out[i].Revenue += o.TotalPrice
		out[i].Orders++
	}
	for i := range out {
		out[i].Revenue = round2(out[i].Revenue)
	}
	return out
}

// RecentOrders returns up to n orders, newest order_date first.
func RecentOrders(orders []models.Order, n int) []models.Order {
	if n <= 0 || len(orders) == 0 {
		return nil
	}
	sorted := append([]models.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderDate.After(sorted[j].OrderDate)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterOrders keeps orders with the given status. "all" and "" keep
// everything; legacy aliases are accepted. An unknown status yields an
// empty result together with the normalization error.
func FilterOrders(orders []models.Order, status string) ([]models.Order, error) {
	want, err := orderflow.NormalizeFilter(status)
	if err != nil {
		return []models.Order{}, err
	}
	if want == orderflow.FilterAll {
		return orders, nil
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if orderflow.Current(o.Status) == want {
			out = append(out, o)
		}
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
