package inputval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Valid(t *testing.T) {
	v, res := Product(ProductInput{
		Name:        "  Comfy Chair ",
		Price:       "$1,200.50",
		Description: "<p>Soft <script>alert(1)</script>seat</p>",
		Category:    " Chairs ",
		Stock:       "7",
	})
	require.False(t, res.HasErrors(), res.All())
	assert.Equal(t, "Comfy Chair", v.Name)
	assert.Equal(t, 1200.50, v.Price)
	assert.Equal(t, "Chairs", v.Category)
	assert.Equal(t, 7, v.Stock)
	assert.NotContains(t, v.Description, "script")
	assert.Contains(t, v.Description, "Soft")
}

func TestProduct_BlankStockIsZero(t *testing.T) {
	v, res := Product(ProductInput{Name: "Lamp", Price: "0"})
	require.False(t, res.HasErrors())
	assert.Equal(t, 0, v.Stock)
	assert.Equal(t, 0.0, v.Price)
}

func TestProduct_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    ProductInput
		field string
		msg   string
	}{
		{"missing name", ProductInput{Price: "10"}, "name", "Name is required."},
		{"long name", ProductInput{Name: strings.Repeat("x", 201), Price: "10"}, "name", "Name must be at most 200 characters."},
		{"bad price", ProductInput{Name: "A", Price: "ten"}, "price", "Price must be a number."},
		{"empty price", ProductInput{Name: "A"}, "price", "Price must be a number."},
		{"nan price", ProductInput{Name: "A", Price: "NaN"}, "price", "Price must be a number."},
		{"negative price", ProductInput{Name: "A", Price: "-1"}, "price", "Price cannot be negative."},
		{"fractional stock", ProductInput{Name: "A", Price: "1", Stock: "1.5"}, "stock", "Stock must be a whole number."},
		{"negative stock", ProductInput{Name: "A", Price: "1", Stock: "-3"}, "stock", "Stock cannot be negative."},
		{"long category", ProductInput{Name: "A", Price: "1", Category: strings.Repeat("c", 101)}, "category", "Category must be at most 100 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := Product(tt.in)
			require.True(t, res.HasErrors())
			assert.Equal(t, tt.msg, res.For(tt.field))
		})
	}
}

func TestResult(t *testing.T) {
	var empty *Result
	assert.False(t, empty.HasErrors())
	assert.Equal(t, "", empty.First())
	assert.Equal(t, "", empty.For("name"))

	r := &Result{}
	r.Add("name", "Name is required.")
	r.Add("price", "Price must be a number.")
	assert.Equal(t, "Name is required.", r.First())
	assert.Equal(t, "Name is required. Price must be a number.", r.All())
	assert.Equal(t, "Price must be a number.", r.For("price"))
}

func TestIsValidObjectID(t *testing.T) {
	assert.True(t, IsValidObjectID("507f1f77bcf86cd799439011"))
	assert.False(t, IsValidObjectID("not-an-id"))
	assert.False(t, IsValidObjectID(""))
}
