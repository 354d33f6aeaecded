package products

import (
	"context"
	"errors"
	"net/http"

	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// HandleDelete handles POST /admin/products/{id}/delete. Deleting a product
// that is already gone still lands on the list with the deleted notice.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, ok := productID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad product id", nil, "Invalid product ID.", listPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Products.Delete(ctx, oid)
	switch {
	case errors.Is(err, productstore.ErrNotFound):
		h.Log.Info("delete: product already gone", zap.String("product_id", oid.Hex()))
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete product", err, "Could not delete the product.", listPath)
		return
	default:
		h.removeImage(ctx, p.ImagePath)
		h.Log.Info("product deleted",
			zap.String("product_id", oid.Hex()),
			zap.String("name", p.Name))
	}

	redirect(w, r, viewdata.WithFlash(listPath, viewdata.FlashProductDeleted))
}
