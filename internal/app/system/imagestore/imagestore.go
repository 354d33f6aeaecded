// Package imagestore accepts product image uploads: it sniffs the content
// type, enforces the size cap, names the object and hands it to a
// pantry/storage backend.
package imagestore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("image must be a JPEG, PNG, WebP or GIF file")
	ErrTooLarge        = errors.New("image is too large")
)

// DefaultMaxBytes caps a single upload when no limit is configured.
const DefaultMaxBytes int64 = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Images stores product images in a storage backend.
type Images struct {
	store    storage.Store
	maxBytes int64
	now      func() time.Time
}

// New wraps store. maxBytes <= 0 means DefaultMaxBytes.
func New(store storage.Store, maxBytes int64) *Images {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Images{store: store, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes is the per-file size limit.
func (im *Images) MaxBytes() int64 { return im.maxBytes }

// Save rejects anything but the four supported image formats and stores
// the upload as products/YYYY/MM/<uuid>.<ext>, returning that path.
func (im *Images) Save(ctx context.Context, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("imagestore: read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := extensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(br, im.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("imagestore: read upload: %w", err)
	}
	if int64(len(data)) > im.maxBytes {
		return "", ErrTooLarge
	}

	now := im.now().UTC()
	rel := path.Join("products", fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()), uuid.NewString()+ext)
	err = im.store.Put(ctx, rel, bytes.NewReader(data), &storage.PutOptions{
		ContentType: contentType,
		IfNotExists: true,
	})
	if err != nil {
		return "", fmt.Errorf("imagestore: store %s: %w", rel, err)
	}
	return rel, nil
}

// Delete removes a stored image. Missing objects are not an error.
func (im *Images) Delete(ctx context.Context, rel string) error {
	if err := im.store.Delete(ctx, rel); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("imagestore: delete %s: %w", rel, err)
	}
	return nil
}

// URL returns the public URL of a stored path, or "" for an empty path.
// Absolute URLs (imported from elsewhere) are returned unchanged.
func (im *Images) URL(rel string) string {
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	return im.store.URL(rel)
}
