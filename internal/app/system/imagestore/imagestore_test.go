package imagestore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal valid PNG header followed by padding.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

var fixedNow = func() time.Time { return time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC) }

func newMemoryImages(max int64) (*Images, *storage.Memory) {
	mem := storage.NewMemory(storage.MemoryConfig{BaseURL: "/uploads"})
	im := New(mem, max)
	im.now = fixedNow
	return im, mem
}

func newLocalImages(t *testing.T, root string) *Images {
	t.Helper()
	local, err := storage.NewLocal(storage.LocalConfig{BasePath: root, BaseURL: "/uploads/"})
	require.NoError(t, err)
	return New(local, 1024)
}

func TestSave_PNG(t *testing.T) {
	im, mem := newMemoryImages(1024)
	ctx := context.Background()

	rel, err := im.Save(ctx, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "products/2025/03/"), rel)
	assert.True(t, strings.HasSuffix(rel, ".png"), rel)

	data, err := mem.GetBytes(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	info, err := mem.Head(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, "/uploads/"+rel, im.URL(rel))
}

func TestSave_RejectsNonImage(t *testing.T) {
	im, _ := newMemoryImages(1024)

	_, err := im.Save(context.Background(), strings.NewReader("<html><body>nope</body></html>"))
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestSave_TooLarge(t *testing.T) {
	im, mem := newMemoryImages(16)
	ctx := context.Background()

	_, err := im.Save(ctx, bytes.NewReader(pngBytes))
	require.True(t, errors.Is(err, ErrTooLarge))

	res, err := mem.List(ctx, "products", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Objects, "nothing is stored for a rejected upload")
}

func TestDelete(t *testing.T) {
	im, mem := newMemoryImages(1024)
	ctx := context.Background()

	rel, err := im.Save(ctx, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.NoError(t, im.Delete(ctx, rel))

	ok, err := mem.Exists(ctx, rel)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is fine.
	assert.NoError(t, im.Delete(ctx, rel))
}

func TestLocal_SaveAndDeleteOnDisk(t *testing.T) {
	root := t.TempDir()
	im := newLocalImages(t, root)
	im.now = fixedNow
	ctx := context.Background()

	rel, err := im.Save(ctx, bytes.NewReader(pngBytes))
	require.NoError(t, err)

	full := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "/uploads/"+rel, im.URL(rel))

	require.NoError(t, im.Delete(ctx, rel))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_DeleteStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	im := newLocalImages(t, root)

	outside := filepath.Join(filepath.Dir(root), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	err := im.Delete(context.Background(), "../keep.txt")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
	_, err = os.Stat(outside)
	assert.NoError(t, err, "file outside root must survive")
}

func TestURL(t *testing.T) {
	im, _ := newMemoryImages(1024)
	assert.Equal(t, "", im.URL(""))
	assert.Equal(t, "https://cdn.example.com/a.png", im.URL("https://cdn.example.com/a.png"))
}

func TestNew_DefaultMaxBytes(t *testing.T) {
	im := New(storage.NewMemory(storage.MemoryConfig{}), 0)
	assert.Equal(t, DefaultMaxBytes, im.MaxBytes())
}
