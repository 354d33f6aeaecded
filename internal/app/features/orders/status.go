package orders

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// HandleStatus handles POST /admin/orders/{id}/status. The outcome is
// reported as a flash on the page the admin came from.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	oid, ok := orderID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad order id", nil, "Invalid order ID.", listPath)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form", err, "Invalid form data.", listPath)
		return
	}
	back := returnTarget(r.PostFormValue("return"), listPath+"/"+oid.Hex())

	raw := strings.TrimSpace(r.PostFormValue("status"))
	if raw == "" {
		redirect(w, r, back)
		return
	}

	actor := ""
	if u, ok := auth.CurrentUser(r); ok {
		actor = u.Email
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	o, changed, err := orderflow.Apply(ctx, h.Orders, oid, raw, actor)
	switch {
	case errors.Is(err, orderstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "status change on missing order", "Order not found.", listPath)
		return
	case errors.Is(err, orderflow.ErrUnknownStatus):
		h.ErrLog.LogBadRequest(w, r, "unknown order status", err, "Unknown order status.", back)
		return
	case errors.Is(err, orderflow.ErrInvalidTransition):
		h.Log.Info("order status change rejected", zap.String("order_id", oid.Hex()), zap.Error(err))
		redirect(w, r, viewdata.WithFlash(back, viewdata.FlashStatusRejected))
		return
	case errors.Is(err, orderstore.ErrStatusConflict):
		h.Log.Warn("order status changed concurrently", zap.String("order_id", oid.Hex()))
		redirect(w, r, viewdata.WithFlash(back, viewdata.FlashStatusConflict))
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update order status", err, "Could not update the order.", back)
		return
	}

	if !changed {
		redirect(w, r, viewdata.WithFlash(back, viewdata.FlashStatusUnchanged))
		return
	}
	h.Log.Info("order status updated",
		zap.String("order_id", oid.Hex()),
		zap.String("status", o.Status),
		zap.String("by", actor))
	redirect(w, r, viewdata.WithFlash(back, viewdata.FlashStatusUpdated))
}

// returnTarget accepts only paths inside the orders area and drops any
// stale flash parameter.
func returnTarget(raw, fallback string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, listPath) {
		return fallback
	}
	q := u.Query()
	q.Del("flash")
	u.RawQuery = q.Encode()
	return u.String()
}
