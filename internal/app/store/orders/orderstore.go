// internal/app/store/orders/orderstore.go
package orderstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection orders live in.
const Collection = "orders"

var (
	ErrNotFound = errors.New("order not found")
	// ErrStatusConflict means the order changed status between read and write.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts an order. Missing status defaults to pending and a missing
// order date to now.
func (s *Store) Create(ctx context.Context, o models.Order) (models.Order, error) {
	now := time.Now().UTC()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	if o.CartItems == nil {
		o.CartItems = []models.CartItem{}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var o models.Order
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// List returns orders newest first. status is a normalized status or
// orderflow.FilterAll; legacy stored values are matched too.
func (s *Store) List(ctx context.Context, status string) ([]models.Order, error) {
	filter := bson.M{}
	if status != "" && status != orderflow.FilterAll {
		filter["order_status"] = bson.M{"$in": storedValues(status)}
	}
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an order from one status to another and appends a
// history entry. The write only applies while the order still has the
// status the caller validated against; otherwise ErrStatusConflict.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to, changedBy string) (models.Order, error) {
	now := time.Now().UTC()
	change := models.StatusChange{From: from, To: to, ChangedBy: changedBy, ChangedAt: now}

	filter := bson.M{"_id": id, "order_status": bson.M{"$in": storedValues(from)}}
	update := bson.M{
		"$set":  bson.M{"order_status": to, "updated_at": now},
		"$push": bson.M{"status_history": change},
	}

	var out models.Order
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Tell "gone" apart from "moved under us".
		if _, gerr := s.GetByID(ctx, id); errors.Is(gerr, ErrNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, ErrStatusConflict
	}
	if err != nil {
		return models.Order{}, err
	}
	return out, nil
}

// Delete removes an order. A missing order returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of orders.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// storedValues expands a status to every raw value it may be stored as.
// Pending also matches documents with no status field.
func storedValues(status string) bson.A {
	vals := bson.A{}
	for _, v := range orderflow.StoredVariants(status) {
		vals = append(vals, v)
	}
	if status == models.OrderPending {
		vals = append(vals, nil)
	}
	return vals
}
