package libs

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"farm-shop/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 1024)

	ref, err := store.Save(context.Background(), "invoice_316.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "invoices/invoice_316.pdf", ref)

	full, err := store.Resolve(ref)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestLocalStoreSaveStripsDirectories(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 1024)

	ref, err := store.Save(context.Background(), "../../evil.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "invoices/evil.pdf", ref)
}

func imageHeader(t *testing.T, filename string, size int) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestLocalStoreImageLifecycle(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 1024)
	ctx := context.Background()

	ref, err := store.SaveImage(ctx, imageHeader(t, "fresh eggs.jpg", 64), "products")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "products/"))
	assert.True(t, strings.HasSuffix(ref, "_fresh_eggs.jpg"))

	full, err := store.Resolve(ref)
	require.NoError(t, err)
	assert.FileExists(t, full)

	require.NoError(t, store.DeleteImage(ctx, ref))
	assert.NoFileExists(t, full)
	assert.NoError(t, store.DeleteImage(ctx, ref), "deleting twice is fine")
}

func TestLocalStoreImageValidation(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 32)
	ctx := context.Background()

	_, err := store.SaveImage(ctx, imageHeader(t, "big.png", 64), "products")
	assert.ErrorIs(t, err, utils.ErrFileTooLarge)

	_, err = store.SaveImage(ctx, imageHeader(t, "script.svg", 8), "products")
	assert.ErrorIs(t, err, utils.ErrInvalidFileType)

	outside := t.TempDir() + "/keep.jpg"
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	require.NoError(t, store.DeleteImage(ctx, "../../"+outside))
	assert.FileExists(t, outside, "references cannot climb out of the upload dir")
}

func TestPublicIDFromURL(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712345678/products/1712_eggs.jpg":    "products/1712_eggs",
		"https://res.cloudinary.com/demo/image/upload/q_auto,f_auto/v17/products/honey.webp": "products/honey",
		"https://res.cloudinary.com/demo/raw/upload/invoices/invoice_316.pdf":                "invoices/invoice_316",
		"products/local.jpg": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, publicIDFromURL(in), in)
	}
}
