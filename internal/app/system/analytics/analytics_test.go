package analytics_test

import (
	"testing"
	"time"

	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 2, 7, 15, 0, 0, 0, time.UTC)

func sampleOrders() []models.Order {
	return []models.Order{
		{FullName: "Emma Wilson", TotalPrice: 245.99, Discount: 10, Status: models.OrderPending, OrderDate: now.Add(-2 * time.Hour)},
		{FullName: "James Miller", TotalPrice: 100, Status: models.OrderShipped, OrderDate: now.AddDate(0, 0, -1)},
		{FullName: "Ana Ruiz", TotalPrice: 54.01, Status: "", OrderDate: now.AddDate(0, 0, -3)},
		{FullName: "Lee Park", TotalPrice: 300, Discount: 20, Status: models.OrderCancelled, OrderDate: now.AddDate(0, 0, -40)},
		{FullName: "Old Screen", TotalPrice: 50, Status: "success", OrderDate: now.AddDate(0, 0, -5)},
	}
}

func sampleProducts() []models.Product {
	return []models.Product{
		{Name: "Sofa", Price: 500, Stock: 2, Category: "Living"},
		{Name: "Chair", Price: 80, Stock: 10, Category: "Living"},
		{Name: "Lamp", Price: 40, Stock: 0},
		{Name: "Desk", Price: 200, Stock: 5, Category: "Office"},
	}
}

func TestSummarize_Totals(t *testing.T) {
	s := analytics.Summarize(sampleOrders(), sampleProducts(), analytics.Options{Now: now})

	assert.Equal(t, 5, s.TotalOrders)
	assert.Equal(t, 2, s.PendingOrders, "empty status counts as pending")
	assert.Equal(t, 4, s.TotalProducts)
	assert.Equal(t, 2, s.LowStockItems, "stock below 5 is low; exactly 5 is not")
	assert.Equal(t, 5, s.LowStockThreshold)
	assert.InDelta(t, 750.0, s.TotalRevenue, 0.001)
	assert.InDelta(t, 30.0, s.TotalDiscounts, 0.001)
	assert.InDelta(t, 440.0, s.NetRevenue, 0.001)
	assert.InDelta(t, 150.0, s.AverageOrderValue, 0.001)
	assert.InDelta(t, 2800.0, s.InventoryValue, 0.001)

	require.Len(t, s.LowStock, 2)
	assert.Equal(t, "Lamp", s.LowStock[0].Name)
}

func TestSummarize_ByStatusAlwaysHasAllStatuses(t *testing.T) {
	s := analytics.Summarize(nil, nil, analytics.Options{Now: now})
	require.Len(t, s.ByStatus, len(models.OrderStatuses))
	for i, st := range models.OrderStatuses {
		assert.Equal(t, st, s.ByStatus[i].Status)
		assert.Zero(t, s.ByStatus[i].Count)
	}
	assert.Zero(t, s.AverageOrderValue)
	assert.Empty(t, s.RecentOrders)
}

func TestSummarize_ByStatusCounts(t *testing.T) {
	orders := append(sampleOrders(), models.Order{TotalPrice: 1, Status: "refunded", OrderDate: now})
	s := analytics.Summarize(orders, nil, analytics.Options{Now: now})

	got := map[string]int{}
	for _, sc := range s.ByStatus {
		got[sc.Status] = sc.Count
	}
	assert.Equal(t, map[string]int{
		models.OrderPending:   2,
		models.OrderShipped:   1,
		models.OrderDelivered: 1,
		models.OrderCancelled: 1,
		"refunded":            1,
	}, got)
	assert.Equal(t, "refunded", s.ByStatus[len(s.ByStatus)-1].Status)
}

func TestSummarize_CustomThreshold(t *testing.T) {
	s := analytics.Summarize(nil, sampleProducts(), analytics.Options{LowStockThreshold: 11, Now: now})
	assert.Equal(t, 4, s.LowStockItems)
}

func TestCategoryBreakdown(t *testing.T) {
	cats := analytics.CategoryBreakdown(sampleProducts())
	require.Len(t, cats, 3)
	assert.Equal(t, "Living", cats[0].Category)
	assert.Equal(t, 2, cats[0].Products)
	assert.Equal(t, 12, cats[0].Units)
	assert.InDelta(t, 1800.0, cats[0].InventoryValue, 0.001)
	assert.Equal(t, "Office", cats[1].Category)
	assert.Equal(t, models.UncategorizedLabel, cats[2].Category)
}

func TestRevenueByDay(t *testing.T) {
	days := analytics.RevenueByDay(sampleOrders(), now, 7)
	require.Len(t, days, 7)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), days[0].Day)
	assert.Equal(t, time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC), days[6].Day)
	assert.InDelta(t, 245.99, days[6].Revenue, 0.001)
	assert.Equal(t, 1, days[6].Orders)
	assert.InDelta(t, 100.0, days[5].Revenue, 0.001)
	assert.InDelta(t, 54.01, days[3].Revenue, 0.001)
	assert.InDelta(t, 50.0, days[1].Revenue, 0.001)
	assert.Zero(t, days[0].Orders)

	assert.Nil(t, analytics.RevenueByDay(sampleOrders(), now, 0))
}

func TestRecentOrders(t *testing.T) {
	recent := analytics.RecentOrders(sampleOrders(), 3)
	require.Len(t, recent, 3)
	assert.Equal(t, "Emma Wilson", recent[0].FullName)
	assert.Equal(t, "James Miller", recent[1].FullName)
	assert.Equal(t, "Ana Ruiz", recent[2].FullName)
}

func TestFilterOrders(t *testing.T) {
	orders := sampleOrders()

	all, err := analytics.FilterOrders(orders, "All")
	require.NoError(t, err)
	assert.Len(t, all, len(orders))

	pending, err := analytics.FilterOrders(orders, "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	delivered, err := analytics.FilterOrders(orders, "success")
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "Old Screen", delivered[0].FullName)

	none, err := analytics.FilterOrders(orders, "lost")
	assert.Error(t, err)
	assert.Empty(t, none)
}

func TestProductStats(t *testing.T) {
	st := analytics.ProductStats(sampleProducts())
	assert.Equal(t, 4, st.TotalProducts)
	assert.InDelta(t, 820.0, st.TotalPrice, 0.001)
	assert.Equal(t, "205.00", st.AveragePriceText())
	assert.Equal(t, 1, st.OutOfStock)

	empty := analytics.ProductStats(nil)
	assert.Equal(t, "0.00", empty.AveragePriceText())
	assert.Zero(t, empty.TotalPrice)
}
