// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalogue item shown on the storefront and managed from the
// admin products page. NameCI is the folded name used for search and sort;
// NameKey is the folded name with punctuation dropped, unique per product.
type Product struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	NameKey     string             `bson:"name_key" json:"-"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Stock       int                `bson:"stock" json:"stock"`
	ImagePath   string             `bson:"image_path,omitempty" json:"image_path,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// UncategorizedLabel is used wherever a product has no category.
const UncategorizedLabel = "Uncategorized"

// CategoryOrDefault returns the product category, or UncategorizedLabel.
func (p Product) CategoryOrDefault() string {
	if p.Category == "" {
		return UncategorizedLabel
	}
	return p.Category
}

// InventoryValue is price times units in stock.
func (p Product) InventoryValue() float64 {
	if p.Stock <= 0 {
		return 0
	}
	return p.Price * float64(p.Stock)
}
