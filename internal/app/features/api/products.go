package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/docschema"
	"github.com/dalemusser/hekto/internal/app/system/inputval"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.uber.org/zap"
)

type productDoc struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// productView is a product as the API returns it.
type productView struct {
	models.Product
	ImageURL string `json:"image_url,omitempty"`
}

func (h *Handler) view(p models.Product) productView {
	v := productView{Product: p}
	if h.Images != nil && p.ImagePath != "" {
		v.ImageURL = h.Images.URL(p.ImagePath)
	}
	return v
}

// decodeProduct checks the body against the product schema and then applies
// the same rules as the admin form, including description sanitizing.
func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (inputval.ProductValues, bool) {
	data, err := readBody(w, r)
	if err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Could not read request body.")
		return inputval.ProductValues{}, false
	}
	if err := h.Schemas.ValidateProduct(data); err != nil {
		var ve *docschema.ValidationError
		if errors.As(err, &ve) {
			uierrors.WriteJSONFields(w, http.StatusBadRequest, "Invalid product.", ve.Fields)
			return inputval.ProductValues{}, false
		}
		h.Log.Error("validate product", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not validate product.")
		return inputval.ProductValues{}, false
	}

	var doc productDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid product.")
		return inputval.ProductValues{}, false
	}
	vals, res := inputval.Product(inputval.ProductInput{
		Name:        doc.Name,
		Price:       strconv.FormatFloat(doc.Price, 'f', -1, 64),
		Description: doc.Description,
		Category:    doc.Category,
		Stock:       strconv.Itoa(doc.Stock),
	})
	if res.HasErrors() {
		uierrors.WriteJSONFields(w, http.StatusUnprocessableEntity, res.First(), res.Errors)
		return inputval.ProductValues{}, false
	}
	return vals, true
}

// ServeProducts handles GET /api/admin/products.
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ps, err := h.Products.List(ctx)
	if err != nil {
		h.Log.Error("list products", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not load products.")
		return
	}
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, h.view(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateProduct handles POST /api/admin/products.
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	vals, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.Create(ctx, models.Product{
		Name:        vals.Name,
		Price:       vals.Price,
		Description: vals.Description,
		Category:    vals.Category,
		Stock:       vals.Stock,
	})
	if errors.Is(err, productstore.ErrDuplicateName) {
		uierrors.WriteJSON(w, http.StatusConflict, "A product with this name already exists.")
		return
	}
	if err != nil {
		h.Log.Error("create product", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not save product.")
		return
	}
	writeJSON(w, http.StatusCreated, h.view(p))
}

// ServeProduct handles GET /api/admin/products/{id}.
func (h *Handler) ServeProduct(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectID(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.GetByID(ctx, oid)
	if errors.Is(err, productstore.ErrNotFound) {
		uierrors.WriteJSON(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		h.Log.Error("load product", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not load product.")
		return
	}
	writeJSON(w, http.StatusOK, h.view(p))
}

// HandleUpdateProduct handles PUT /api/admin/products/{id}. The body
// replaces every editable field.
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectID(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	vals, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
		uierrors.WriteJSON(w, http.StatusNotFound, "Product not found.")
		return
	case errors.Is(err, productstore.ErrDuplicateName):
		uierrors.WriteJSON(w, http.StatusConflict, "A product with this name already exists.")
		return
	case err != nil:
		h.Log.Error("update product", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not update product.")
		return
	}
	writeJSON(w, http.StatusOK, h.view(p))
}

// HandleDeleteProduct handles DELETE /api/admin/products/{id}. Deleting a
// missing product still answers 204.
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	oid, ok := objectID(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Products.Delete(ctx, oid)
	switch {
	case errors.Is(err, productstore.ErrNotFound):
	case err != nil:
		h.Log.Error("delete product", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not delete product.")
		return
	default:
		if h.Images != nil && p.ImagePath != "" {
			if err := h.Images.Delete(ctx, p.ImagePath); err != nil {
				h.Log.Warn("remove product image", zap.String("path", p.ImagePath), zap.Error(err))
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
