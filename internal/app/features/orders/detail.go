package orders

import (
	"context"
	"errors"
	"net/http"

	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeDetail handles GET /admin/orders/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	oid, ok := orderID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad order id", nil, "Invalid order ID.", listPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	o, err := h.Orders.GetByID(ctx, oid)
	if errors.Is(err, orderstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "order not found", "Order not found.", listPath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load order", err, "Could not load the order.", listPath)
		return
	}

	st := orderflow.Current(o.Status)
	data := detailData{
		BaseVM:      viewdata.NewAdminVM(r, "Order "+o.FullName, viewdata.SectionOrders),
		ID:          o.ID.Hex(),
		FullName:    o.FullName,
		Email:       o.Email,
		Phone:       o.PhoneNumber,
		Address:     o.Address,
		City:        o.City,
		PostalCode:  o.PostalCode,
		Country:     o.Country,
		CardLast4:   o.CardLast4,
		Date:        format.Date(o.OrderDate),
		Discount:    format.Money(o.Discount),
		Total:       format.Money(o.TotalPrice),
		Status:      format.StatusLabel(st),
		StatusClass: format.StatusClass(st),
		Terminal:    orderflow.IsTerminal(st),
		Next:        nextOptions(st),
		Items:       h.itemRows(ctx, o.CartItems),
		ReturnURL:   httpnav.CurrentPath(r),
	}
	data.BackURL = listPath

	var subtotal float64
	for _, it := range o.CartItems {
		subtotal += it.Price * float64(quantity(it))
	}
	data.Subtotal = format.Money(subtotal)

	for _, c := range o.StatusHistory {
		data.History = append(data.History, historyRow{
			From:      format.StatusLabel(orderflow.Current(c.From)),
			To:        format.StatusLabel(c.To),
			ChangedBy: c.ChangedBy,
			ChangedAt: c.ChangedAt.UTC().Format("Jan 2, 2006 15:04 MST"),
		})
	}

	h.Render(w, r, "admin_order_detail", data)
}

func quantity(it models.CartItem) int {
	if it.Quantity <= 0 {
		return 1
	}
	return it.Quantity
}

// itemRows formats cart lines. Lines without a stored image borrow the
// current product image when the product still exists.
func (h *Handler) itemRows(ctx context.Context, items []models.CartItem) []itemRow {
	images := map[primitive.ObjectID]string{}
	if h.Products != nil {
		var ids []primitive.ObjectID
		for _, it := range items {
			if it.ImagePath == "" && !it.ProductID.IsZero() {
				ids = append(ids, it.ProductID)
			}
		}
		if len(ids) > 0 {
			ps, err := h.Products.GetByIDs(ctx, ids)
			if err != nil {
				h.Log.Warn("load cart item products", zap.Error(err))
			}
			for _, p := range ps {
				images[p.ID] = p.ImagePath
			}
		}
	}

	rows := make([]itemRow, 0, len(items))
	for _, it := range items {
		img := it.ImagePath
		if img == "" {
			img = images[it.ProductID]
		}
		q := quantity(it)
		rows = append(rows, itemRow{
			Name:     it.Name,
			Quantity: q,
			Price:    format.Money(it.Price),
			Subtotal: format.Money(it.Price * float64(q)),
			ImageURL: h.ImageURL(img),
		})
	}
	return rows
}
