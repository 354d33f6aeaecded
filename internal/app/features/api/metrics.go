package api

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMetrics handles GET /api/admin/metrics.
func (h *Handler) ServeMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s, err := h.Metrics.Load(ctx)
	if err != nil {
		h.Log.Error("load metrics", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not load metrics.")
		return
	}
	writeJSON(w, http.StatusOK, s)
}
