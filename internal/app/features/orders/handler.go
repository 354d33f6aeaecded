// internal/app/features/orders/handler.go
package orders

import (
	"context"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type orderStore interface {
	List(ctx context.Context, status string) ([]models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to, changedBy string) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// productLookup fills in images for cart items that carry none.
type productLookup interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// Handler serves the admin order pages under /admin/orders.
type Handler struct {
	Orders   orderStore
	Products productLookup // optional
	ImageURL func(string) string
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Render   viewdata.RenderFunc
}

func NewHandler(orders orderStore, products productLookup, imageURL func(string) string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if imageURL == nil {
		imageURL = func(s string) string { return s }
	}
	return &Handler{
		Orders:   orders,
		Products: products,
		ImageURL: imageURL,
		Log:      logger,
		ErrLog:   errLog,
		Render:   viewdata.RenderTemplate,
	}
}
