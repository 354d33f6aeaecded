package products

import (
	"context"
	"errors"
	"net/http"

	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/inputval"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeEdit handles GET /admin/products/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, ok := productID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad product id", nil, "Invalid product ID.", listPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.GetByID(ctx, oid)
	if errors.Is(err, productstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "product not found", "Product not found.", listPath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load product", err, "Could not load the product.", listPath)
		return
	}

	h.renderEdit(w, r, http.StatusOK, formFromProduct(p, h.imageURL(p.ImagePath)))
}

// HandleUpdate handles POST /admin/products/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	oid, ok := productID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad product id", nil, "Invalid product ID.", listPath)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse product form", err, "Invalid form data.", listPath)
		return
	}

	in := productInput(r)
	vals, res := inputval.Product(in)
	if res.HasErrors() {
		vm := formFromInput(in, res)
		vm.ID = oid.Hex()
		h.renderEdit(w, r, http.StatusUnprocessableEntity, vm)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Products.Update(ctx, oid, productstore.Fields{
		Name:        vals.Name,
		Price:       vals.Price,
		Description: vals.Description,
		Category:    vals.Category,
		Stock:       vals.Stock,
	})
	switch {
	case errors.Is(err, productstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "update missing product", "Product not found.", listPath)
		return
	case errors.Is(err, productstore.ErrDuplicateName):
		res.Add("name", "A product with this name already exists.")
		vm := formFromInput(in, res)
		vm.ID = oid.Hex()
		h.renderEdit(w, r, http.StatusConflict, vm)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update product", err, "Could not save the product.", listPath)
		return
	}

	h.Log.Info("product updated", zap.String("product_id", p.ID.Hex()))
	redirect(w, r, viewdata.WithFlash(listPath, viewdata.FlashProductUpdated))
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, status int, form productFormVM) {
	data := editData{
		BaseVM:        viewdata.NewAdminVM(r, "Edit Product", viewdata.SectionProducts),
		Form:          form,
		UploadEnabled: h.Images != nil,
	}
	data.BackURL = listPath
	if status == http.StatusOK {
		h.Render(w, r, "admin_product_edit", data)
		return
	}
	viewdata.RenderStatus(h.Render, w, r, status, "admin_product_edit", data)
}
