package analytics

import (
	"strconv"

	"github.com/dalemusser/hekto/internal/domain/models"
)

// ProductTotals is the header row of the admin products page.
type ProductTotals struct {
	TotalProducts  int     `json:"total_products"`
	TotalPrice     float64 `json:"total_price"`
	AveragePrice   float64 `json:"average_price"`
	InventoryValue float64 `json:"inventory_value"`
	OutOfStock     int     `json:"out_of_stock"`
}

// AveragePriceText renders the average with two decimals ("0.00" when
// there are no products).
func (s ProductTotals) AveragePriceText() string {
	return strconv.FormatFloat(s.AveragePrice, 'f', 2, 64)
}

// ProductStats sums list prices and stock value across products.
func ProductStats(products []models.Product) ProductTotals {
	var s ProductTotals
	s.TotalProducts = len(products)
	for _, p := range products {
		s.TotalPrice += p.Price
		s.InventoryValue += p.InventoryValue()
		if p.Stock <= 0 {
			s.OutOfStock++
		}
	}
	if s.TotalProducts > 0 {
		s.AveragePrice = round2(s.TotalPrice / float64(s.TotalProducts))
	}
	s.TotalPrice = round2(s.TotalPrice)
	s.InventoryValue = round2(s.InventoryValue)
	return s
}
