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

// HandleImage handles POST /admin/products/{id}/image (multipart, field
// "image"). The previous file is removed once the new one is recorded.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	oid, ok := productID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad product id", nil, "Invalid product ID.", listPath)
		return
	}
	editPath := listPath + "/" + oid.Hex() + "/edit"

	if h.Images == nil {
		h.ErrLog.LogBadRequest(w, r, "image upload disabled", nil, "Image uploads are not enabled.", editPath)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse image form", err, "Invalid upload.", editPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rel, err := h.saveUpload(ctx, r)
	if errors.Is(err, errNoImage) {
		h.ErrLog.LogBadRequest(w, r, "image missing", nil, "Choose an image to upload.", editPath)
		return
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "image upload rejected", err, uploadMessage(err), editPath)
		return
	}

	prev, err := h.Products.SetImage(ctx, oid, rel)
	if err != nil {
		h.removeImage(ctx, rel)
		if errors.Is(err, productstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "image for missing product", "Product not found.", listPath)
			return
		}
		h.ErrLog.LogServerError(w, r, "record product image", err, "Could not save the image.", editPath)
		return
	}
	if prev != rel {
		h.removeImage(ctx, prev)
	}

	h.Log.Info("product image uploaded",
		zap.String("product_id", oid.Hex()),
		zap.String("path", rel))
	redirect(w, r, viewdata.WithFlash(editPath, viewdata.FlashImageUploaded))
}
