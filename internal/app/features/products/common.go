package products

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/hekto/internal/app/system/imagestore"
	"github.com/dalemusser/hekto/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Room for the text fields alongside an image upload.
const formOverhead = 1 << 20

// errNoImage means the form carried no file in the image field.
var errNoImage = errors.New("no image uploaded")

func productID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	return oid, err == nil
}

// parseForm handles both plain and multipart product forms.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes()+formOverhead)
		return r.ParseMultipartForm(h.maxUploadBytes() + formOverhead)
	}
	return r.ParseForm()
}

func productInput(r *http.Request) inputval.ProductInput {
	return inputval.ProductInput{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Stock:       r.FormValue("stock"),
	}
}

// saveUpload stores the "image" file of a multipart form. It returns
// errNoImage when none was sent.
func (h *Handler) saveUpload(ctx context.Context, r *http.Request) (string, error) {
	if h.Images == nil || r.MultipartForm == nil {
		return "", errNoImage
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", errNoImage
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	if header.Size == 0 {
		return "", errNoImage
	}
	if header.Size > h.Images.MaxBytes() {
		return "", imagestore.ErrTooLarge
	}
	return h.Images.Save(ctx, file)
}

// uploadMessage maps an image error to text for the form.
func uploadMessage(err error) string {
	switch {
	case errors.Is(err, imagestore.ErrUnsupportedType):
		return imagestore.ErrUnsupportedType.Error() + "."
	case errors.Is(err, imagestore.ErrTooLarge):
		return "Image is too large."
	default:
		return "Could not save the image. Please try again."
	}
}

// removeImage deletes a stored file, logging rather than failing.
func (h *Handler) removeImage(ctx context.Context, rel string) {
	if h.Images == nil || rel == "" {
		return
	}
	if err := h.Images.Delete(ctx, rel); err != nil {
		h.Log.Warn("delete product image", zap.String("path", rel), zap.Error(err))
	}
}

// redirect sends the browser on after a POST, via HX-Redirect for HTMX.
func redirect(w http.ResponseWriter, r *http.Request, dest string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
