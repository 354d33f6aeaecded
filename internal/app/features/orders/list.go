package orders

import (
	"context"
	"net/http"

	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// ServeList handles GET /admin/orders?status=. An unknown status sends the
// admin back to the unfiltered list with a notice.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := orderflow.NormalizeFilter(query.Get(r, "status"))
	if err != nil {
		h.Log.Info("unknown order filter", zap.String("status", query.Get(r, "status")))
		http.Redirect(w, r, viewdata.WithFlash(listPath, viewdata.FlashBadFilter), http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Orders.List(ctx, orderflow.FilterAll)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list orders", err, "Could not load orders.", "/admin/dashboard")
		return
	}
	shown, _ := analytics.FilterOrders(all, filter)

	data := listData{
		BaseVM:    viewdata.NewAdminVM(r, "Orders", viewdata.SectionOrders),
		Filter:    filter,
		Tabs:      tabs(all, filter),
		ReturnURL: httpnav.CurrentPath(r),
	}
	for _, o := range shown {
		data.Rows = append(data.Rows, rowFor(o))
	}
	h.Render(w, r, "admin_orders", data)
}

func tabs(all []models.Order, active string) []filterTab {
	counts := make(map[string]int, len(models.OrderStatuses))
	for _, o := range all {
		counts[orderflow.Current(o.Status)]++
	}
	out := []filterTab{{Value: orderflow.FilterAll, Label: "All", Count: len(all), Active: active == orderflow.FilterAll}}
	for _, st := range models.OrderStatuses {
		out = append(out, filterTab{
			Value:  st,
			Label:  format.StatusLabel(st),
			Count:  counts[st],
			Active: active == st,
		})
	}
	return out
}
