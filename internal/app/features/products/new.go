package products

import (
	"context"
	"errors"
	"net/http"

	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/inputval"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /admin/products.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse product form", err, "Invalid form data.", listPath)
		return
	}

	in := productInput(r)
	vals, res := inputval.Product(in)
	if res.HasErrors() {
		h.renderList(w, r, http.StatusUnprocessableEntity, formFromInput(in, res))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	imagePath, err := h.saveUpload(ctx, r)
	if err != nil && !errors.Is(err, errNoImage) {
		h.Log.Warn("product image upload rejected", zap.Error(err))
		res.Add("image", uploadMessage(err))
		h.renderList(w, r, http.StatusUnprocessableEntity, formFromInput(in, res))
		return
	}

	p, err := h.Products.Create(ctx, models.Product{
		Name:        vals.Name,
		Price:       vals.Price,
		Description: vals.Description,
		Category:    vals.Category,
		Stock:       vals.Stock,
		ImagePath:   imagePath,
	})
	if err != nil {
		h.removeImage(ctx, imagePath)
		if errors.Is(err, productstore.ErrDuplicateName) {
			res.Add("name", "A product with this name already exists.")
			h.renderList(w, r, http.StatusConflict, formFromInput(in, res))
			return
		}
		h.ErrLog.LogServerError(w, r, "create product", err, "Could not add the product.", listPath)
		return
	}

	h.Log.Info("product created",
		zap.String("product_id", p.ID.Hex()),
		zap.String("name", p.Name))
	redirect(w, r, viewdata.WithFlash(listPath, viewdata.FlashProductAdded))
}
