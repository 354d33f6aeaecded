// internal/app/features/products/handler.go
package products

import (
	"context"
	"io"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type productStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, f productstore.Fields) (models.Product, error)
	SetImage(ctx context.Context, id primitive.ObjectID, path string) (string, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

type imageStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Delete(ctx context.Context, rel string) error
	URL(rel string) string
	MaxBytes() int64
}

// Handler serves the admin product pages under /admin/products.
type Handler struct {
	Products     productStore
	Images       imageStore // nil disables uploads
	LowThreshold int
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	Render       viewdata.RenderFunc
}

func NewHandler(products productStore, images imageStore, lowThreshold int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if lowThreshold <= 0 {
		lowThreshold = analytics.DefaultLowStockThreshold
	}
	return &Handler{
		Products:     products,
		Images:       images,
		LowThreshold: lowThreshold,
		Log:          logger,
		ErrLog:       errLog,
		Render:       viewdata.RenderTemplate,
	}
}

func (h *Handler) imageURL(rel string) string {
	if h.Images == nil {
		return rel
	}
	return h.Images.URL(rel)
}

func (h *Handler) maxUploadBytes() int64 {
	if h.Images == nil {
		return 1 << 20
	}
	return h.Images.MaxBytes()
}
