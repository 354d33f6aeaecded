// internal/app/store/products/productstore.go
package productstore

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/dalemusser/hekto/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection products live in.
const Collection = "products"

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("a product with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// NameKey is the uniqueness key for a product name: the folded name with
// punctuation dropped and words joined by hyphens. "Sofa Set", "sofa-set"
// and "SOFA SET!" share a key, so they count as the same product.
func NameKey(name string) string {
	words := strings.FieldsFunc(text.Fold(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return text.Fold(name)
	}
	return strings.Join(words, "-")
}

// Create inserts a product. ID, NameCI, NameKey and timestamps are filled
// in here.
func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.NameCI = text.Fold(p.Name)
	p.NameKey = NameKey(p.Name)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Product{}, ErrDuplicateName
		}
		return models.Product{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// GetByIDs loads multiple products by their ObjectIDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// List returns every product ordered by folded name.
func (s *Store) List(ctx context.Context) ([]models.Product, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// Fields holds the mutable product fields for Update.
type Fields struct {
	Name        string
	Price       float64
	Description string
	Category    string
	Stock       int
}

// Update replaces the mutable fields of a product. The name key follows the
// name.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f Fields) (models.Product, error) {
	set := bson.M{
		"name":        f.Name,
		"name_ci":     text.Fold(f.Name),
		"name_key":    NameKey(f.Name),
		"price":       f.Price,
		"description": f.Description,
		"category":    f.Category,
		"stock":       f.Stock,
		"updated_at":  time.Now().UTC(),
	}
	var out models.Product
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Product{}, ErrDuplicateName
		}
		return models.Product{}, err
	}
	return out, nil
}

// SetImage records the stored image path and returns the previous one so the
// caller can remove the old file.
func (s *Store) SetImage(ctx context.Context, id primitive.ObjectID, path string) (string, error) {
	var before models.Product
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"image_path": path, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before)).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return before.ImagePath, nil
}

// Delete removes a product and returns it, so callers can clean up its
// image. A missing product returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Count returns the number of products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Product, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
