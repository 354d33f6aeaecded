package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Product builds an unsaved product with the derived fields filled in.
// NameKey is random so fixtures sharing a name still insert.
func Product(name string, price float64, stock int, category string) models.Product {
	now := time.Now().UTC()
	return models.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		NameKey:   primitive.NewObjectID().Hex(),
		Price:     price,
		Category:  category,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Order builds an unsaved order with one cart line.
func Order(status string, total float64, placed time.Time) models.Order {
	return models.Order{
		ID:          primitive.NewObjectID(),
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "5551234567",
		Address:     "12 Long Street, Apt 4",
		City:        "Springfield",
		PostalCode:  "12345",
		Country:     "US",
		CartItems:   []models.CartItem{{Name: "Comfy Chair", Price: total, Quantity: 1}},
		TotalPrice:  total,
		OrderDate:   placed,
		Status:      status,
		CreatedAt:   placed,
		UpdatedAt:   placed,
	}
}

// Fixtures inserts documents straight into a test database, skipping the
// stores so store tests can set up legacy shapes.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a fixture helper.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	return &Fixtures{db: db, t: t}
}

// InsertProduct stores p and returns it.
func (f *Fixtures) InsertProduct(ctx context.Context, p models.Product) models.Product {
	f.t.Helper()
	if _, err := f.db.Collection("products").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("insert product: %v", err)
	}
	return p
}

// InsertOrder stores o and returns it.
func (f *Fixtures) InsertOrder(ctx context.Context, o models.Order) models.Order {
	f.t.Helper()
	if _, err := f.db.Collection("orders").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("insert order: %v", err)
	}
	return o
}

// InsertRaw stores an arbitrary document, e.g. an order with a legacy status.
func (f *Fixtures) InsertRaw(ctx context.Context, collection string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", collection, err)
	}
}
