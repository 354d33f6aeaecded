package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type orderList struct {
	Status string         `json:"status"`
	Count  int            `json:"count"`
	Orders []models.Order `json:"orders"`
}

// ServeOrders handles GET /api/admin/orders?status=. An unknown status
// yields an empty list.
func (h *Handler) ServeOrders(w http.ResponseWriter, r *http.Request) {
	raw := query.Get(r, "status")
	filter, err := orderflow.NormalizeFilter(raw)
	if err != nil {
		writeJSON(w, http.StatusOK, orderList{Status: raw, Orders: []models.Order{}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orders, err := h.Orders.List(ctx, filter)
	if err != nil {
		h.Log.Error("list orders", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not load orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orderList{Status: filter, Count: len(orders), Orders: orders})
}

// ServeOrder handles GET /api/admin/orders/{id}.
func (h *Handler) ServeOrder(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectID(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	o, err := h.Orders.GetByID(ctx, oid)
	if errors.Is(err, orderstore.ErrNotFound) {
		uierrors.WriteJSON(w, http.StatusNotFound, "Order not found.")
		return
	}
	if err != nil {
		h.Log.Error("load order", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not load order.")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Changed bool         `json:"changed"`
	Order   models.Order `json:"order"`
}

// HandleOrderStatus handles PATCH /api/admin/orders/{id}/status with a
// body of {"status": "..."}.
func (h *Handler) HandleOrderStatus(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectID(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid order ID.")
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Could not read request body.")
		return
	}
	var req statusRequest
	if err := json.Unmarshal(data, &req); err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid JSON.")
		return
	}

	actor := ""
	if u, ok := auth.CurrentUser(r); ok {
		actor = u.Email
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	o, changed, err := orderflow.Apply(ctx, h.Orders, oid, req.Status, actor)
	switch {
	case errors.Is(err, orderflow.ErrUnknownStatus):
		uierrors.WriteJSON(w, http.StatusBadRequest, "Unknown order status.")
		return
	case errors.Is(err, orderstore.ErrNotFound):
		uierrors.WriteJSON(w, http.StatusNotFound, "Order not found.")
		return
	case errors.Is(err, orderflow.ErrInvalidTransition):
		uierrors.WriteJSON(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, orderstore.ErrStatusConflict):
		uierrors.WriteJSON(w, http.StatusConflict, "Order status changed concurrently; reload and retry.")
		return
	case err != nil:
		h.Log.Error("update order status", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not update order.")
		return
	}
	if changed {
		h.Log.Info("order status updated via api",
			zap.String("order_id", oid.Hex()),
			zap.String("status", o.Status),
			zap.String("by", actor))
	}
	writeJSON(w, http.StatusOK, statusResponse{Changed: changed, Order: o})
}

// HandleDeleteOrder handles DELETE /api/admin/orders/{id}. Deleting a
// missing order still answers 204.
func (h *Handler) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectID(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid order ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Orders.Delete(ctx, oid); err != nil && !errors.Is(err, orderstore.ErrNotFound) {
		h.Log.Error("delete order", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not delete order.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
