package orders

import (
	"context"
	"errors"
	"net/http"

	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// HandleDelete handles POST /admin/orders/{id}/delete. A missing order is
// treated as already deleted.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, ok := orderID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad order id", nil, "Invalid order ID.", listPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Orders.Delete(ctx, oid)
	switch {
	case errors.Is(err, orderstore.ErrNotFound):
		h.Log.Info("delete: order already gone", zap.String("order_id", oid.Hex()))
	case err != nil:
		h.ErrLog.LogServerError(w, r, "delete order", err, "Could not delete the order.", listPath)
		return
	default:
		h.Log.Info("order deleted", zap.String("order_id", oid.Hex()))
	}
	redirect(w, r, viewdata.WithFlash(listPath, viewdata.FlashOrderDeleted))
}
