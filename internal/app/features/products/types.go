package products

import (
	"strconv"

	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/inputval"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
)

const listPath = "/admin/products"

// productFormVM backs both the add form on the list page and the edit page.
type productFormVM struct {
	ID          string
	Name        string
	Price       string
	Description string
	Category    string
	Stock       string
	ImageURL    string
	Error       string
	Errors      map[string]string
}

type productRow struct {
	ID         string
	Name       string
	Price      string
	Category   string
	Stock      int
	StockLabel string
	LowStock   bool
	ImageURL   string
}

type statsVM struct {
	TotalProducts  string
	TotalPrice     string
	AveragePrice   string
	InventoryValue string
	OutOfStock     string
}

type listData struct {
	viewdata.BaseVM
	Stats         statsVM
	Query         string
	Rows          []productRow
	Form          productFormVM
	UploadEnabled bool
}

type editData struct {
	viewdata.BaseVM
	Form          productFormVM
	UploadEnabled bool
}

func formFromInput(in inputval.ProductInput, res *inputval.Result) productFormVM {
	vm := productFormVM{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Stock:       in.Stock,
	}
	if res.HasErrors() {
		vm.Error = res.First()
		vm.Errors = make(map[string]string, len(res.Errors))
		for _, e := range res.Errors {
			if _, seen := vm.Errors[e.Field]; !seen {
				vm.Errors[e.Field] = e.Message
			}
		}
	}
	return vm
}

func formFromProduct(p models.Product, imageURL string) productFormVM {
	return productFormVM{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Price:       strconv.FormatFloat(p.Price, 'f', 2, 64),
		Description: p.Description,
		Category:    p.Category,
		Stock:       strconv.Itoa(p.Stock),
		ImageURL:    imageURL,
	}
}

func statsFrom(products []models.Product) statsVM {
	s := analytics.ProductStats(products)
	return statsVM{
		TotalProducts:  format.Count(s.TotalProducts),
		TotalPrice:     format.Money(s.TotalPrice),
		AveragePrice:   "$" + s.AveragePriceText(),
		InventoryValue: format.Money(s.InventoryValue),
		OutOfStock:     format.Count(s.OutOfStock),
	}
}
