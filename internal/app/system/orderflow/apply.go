package orderflow

import (
	"context"

	"github.com/dalemusser/hekto/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Updater is the slice of the order store Apply needs.
type Updater interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to, changedBy string) (models.Order, error)
}

// Apply loads the order, validates the move to rawTo and writes it. When
// the order already has the target status nothing is written and changed
// is false. Store errors (not found, concurrent change) pass through.
func Apply(ctx context.Context, u Updater, id primitive.ObjectID, rawTo, actor string) (order models.Order, changed bool, err error) {
	order, err = u.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, false, err
	}
	from := Current(order.Status)
	to, changed, err := Transition(from, rawTo)
	if err != nil || !changed {
		return order, false, err
	}
	order, err = u.UpdateStatus(ctx, id, from, to, actor)
	if err != nil {
		return models.Order{}, false, err
	}
	return order, true, nil
}
