// Package seed loads demo catalogue and order data from a YAML file.
//
//	products:
//	  - name: Modern Sofa
//	    price: 499.99
//	    category: Sofas
//	    stock: 3
//	orders:
//	  - full_name: Ada Lovelace
//	    email: ada@example.com
//	    status: shipped
//	    items:
//	      - product: Modern Sofa
//	        quantity: 2
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/hekto/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the YAML document.
type File struct {
	Products []Product `yaml:"products"`
	Orders   []Order   `yaml:"orders"`
}

type Product struct {
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description,omitempty"`
	Category    string  `yaml:"category,omitempty"`
	Stock       int     `yaml:"stock"`
	Image       string  `yaml:"image,omitempty"`
}

type Item struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity,omitempty"`
}

type Order struct {
	FullName    string    `yaml:"full_name"`
	Email       string    `yaml:"email"`
	PhoneNumber string    `yaml:"phone_number,omitempty"`
	Address     string    `yaml:"address,omitempty"`
	City        string    `yaml:"city,omitempty"`
	PostalCode  string    `yaml:"postal_code,omitempty"`
	Country     string    `yaml:"country,omitempty"`
	Items       []Item    `yaml:"items,omitempty"`
	TotalPrice  float64   `yaml:"total_price,omitempty"`
	Discount    float64   `yaml:"discount,omitempty"`
	Status      string    `yaml:"status,omitempty"`
	OrderDate   time.Time `yaml:"order_date,omitempty"`
}

// Read decodes a seed document. Unknown keys are rejected so typos surface.
func Read(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &f, f.Validate()
}

// ReadFile is Read for a path on disk.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer fh.Close()
	return Read(fh)
}

// Validate checks references and values before anything is written.
func (f *File) Validate() error {
	var problems []string
	names := map[string]bool{}
	for i, p := range f.Products {
		if strings.TrimSpace(p.Name) == "" {
			problems = append(problems, fmt.Sprintf("products[%d]: name is required", i))
			continue
		}
		if p.Price < 0 {
			problems = append(problems, fmt.Sprintf("products[%d] %s: price must be >= 0", i, p.Name))
		}
		if p.Stock < 0 {
			problems = append(problems, fmt.Sprintf("products[%d] %s: stock must be >= 0", i, p.Name))
		}
		names[text.Fold(p.Name)] = true
	}
	for i, o := range f.Orders {
		if o.Status != "" {
			if _, err := orderflow.Normalize(o.Status); err != nil {
				problems = append(problems, fmt.Sprintf("orders[%d]: %v", i, err))
			}
		}
		for j, it := range o.Items {
			if !names[text.Fold(it.Product)] {
				problems = append(problems, fmt.Sprintf("orders[%d].items[%d]: unknown product %q", i, j, it.Product))
			}
		}
	}
	if len(problems) > 0 {
		return errors.New("seed: " + strings.Join(problems, "; "))
	}
	return nil
}

type productCreator interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
}

type orderCreator interface {
	Create(ctx context.Context, o models.Order) (models.Order, error)
}

// Result counts what Apply wrote.
type Result struct {
	Products int
	Orders   int
}

// Apply writes the products, then the orders with cart items resolved by
// product name. An order without total_price gets the sum of its items.
func Apply(ctx context.Context, f *File, products productCreator, orders orderCreator, log *zap.Logger) (Result, error) {
	var res Result
	byName := make(map[string]models.Product, len(f.Products))

	for _, sp := range f.Products {
		p, err := products.Create(ctx, models.Product{
			Name:        strings.TrimSpace(sp.Name),
			Price:       sp.Price,
			Description: htmlsanitize.Clean(sp.Description),
			Category:    strings.TrimSpace(sp.Category),
			Stock:       sp.Stock,
			ImagePath:   sp.Image,
		})
		if err != nil {
			return res, fmt.Errorf("seed: product %q: %w", sp.Name, err)
		}
		byName[text.Fold(p.Name)] = p
		res.Products++
	}

	for i, so := range f.Orders {
		o := models.Order{
			FullName:    so.FullName,
			Email:       so.Email,
			PhoneNumber: so.PhoneNumber,
			Address:     so.Address,
			City:        so.City,
			PostalCode:  so.PostalCode,
			Country:     so.Country,
			TotalPrice:  so.TotalPrice,
			Discount:    so.Discount,
			OrderDate:   so.OrderDate,
		}
		if so.Status != "" {
			st, err := orderflow.Normalize(so.Status)
			if err != nil {
				return res, fmt.Errorf("seed: orders[%d]: %w", i, err)
			}
			o.Status = st
		}
		var sum float64
		for _, it := range so.Items {
			p, ok := byName[text.Fold(it.Product)]
			if !ok {
				return res, fmt.Errorf("seed: orders[%d]: unknown product %q", i, it.Product)
			}
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			o.CartItems = append(o.CartItems, models.CartItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  qty,
				ImagePath: p.ImagePath,
			})
			sum += p.Price * float64(qty)
		}
		if o.TotalPrice == 0 {
			o.TotalPrice = sum
		}
		if _, err := orders.Create(ctx, o); err != nil {
			return res, fmt.Errorf("seed: orders[%d]: %w", i, err)
		}
		res.Orders++
	}

	log.Info("seed applied", zap.Int("products", res.Products), zap.Int("orders", res.Orders))
	return res, nil
}
