// internal/domain/models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses as stored in the orders collection.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// OrderStatuses lists every stored status in display order.
var OrderStatuses = []string{OrderPending, OrderShipped, OrderDelivered, OrderCancelled}

// CartItem is a denormalized snapshot of a product at checkout time.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id,omitempty" json:"product_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	ImagePath string             `bson:"image_path,omitempty" json:"image_path,omitempty"`
}

// StatusChange records one accepted order status transition.
type StatusChange struct {
	From      string    `bson:"from" json:"from"`
	To        string    `bson:"to" json:"to"`
	ChangedBy string    `bson:"changed_by,omitempty" json:"changed_by,omitempty"`
	ChangedAt time.Time `bson:"changed_at" json:"changed_at"`
}

// Order is a customer order. Raw card data is never stored; only the last
// four digits survive intake.
type Order struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	FullName      string             `bson:"full_name" json:"full_name"`
	Email         string             `bson:"email" json:"email"`
	PhoneNumber   string             `bson:"phone_number" json:"phone_number"`
	Address       string             `bson:"address" json:"address"`
	City          string             `bson:"city" json:"city"`
	PostalCode    string             `bson:"postal_code" json:"postal_code"`
	Country       string             `bson:"country" json:"country"`
	CartItems     []CartItem         `bson:"cart_items" json:"cart_items"`
	TotalPrice    float64            `bson:"total_price" json:"total_price"`
	Discount      float64            `bson:"discount" json:"discount"`
	CardLast4     string             `bson:"card_last4,omitempty" json:"card_last4,omitempty"`
	OrderDate     time.Time          `bson:"order_date" json:"order_date"`
	Status        string             `bson:"order_status" json:"order_status"`
	StatusHistory []StatusChange     `bson:"status_history,omitempty" json:"status_history,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// ItemCount returns the total quantity across cart items. Items without an
// explicit quantity count as one.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.CartItems {
		if it.Quantity <= 0 {
			n++
			continue
		}
		n += it.Quantity
	}
	return n
}
