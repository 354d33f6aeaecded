// internal/app/features/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/docschema"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type orderStore interface {
	Create(ctx context.Context, o models.Order) (models.Order, error)
	List(ctx context.Context, status string) ([]models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to, changedBy string) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type productStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, f productstore.Fields) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// imageStore removes the upload of a deleted product and builds public URLs.
type imageStore interface {
	Delete(ctx context.Context, rel string) error
	URL(rel string) string
}

// metricsSource is satisfied by the dashboard handler.
type metricsSource interface {
	Load(ctx context.Context) (analytics.Summary, error)
}

// Handler serves the JSON API: public order intake plus the admin
// endpoints under /api/admin.
type Handler struct {
	Orders   orderStore
	Products productStore
	Images   imageStore // optional
	Metrics  metricsSource
	Schemas  *docschema.Validator
	Log      *zap.Logger
}

func NewHandler(orders orderStore, products productStore, images imageStore, metrics metricsSource, schemas *docschema.Validator, logger *zap.Logger) *Handler {
	return &Handler{
		Orders:   orders,
		Products: products,
		Images:   images,
		Metrics:  metrics,
		Schemas:  schemas,
		Log:      logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func objectID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	return oid, err == nil
}
