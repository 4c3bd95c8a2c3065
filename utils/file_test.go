package utils

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name   string
		header *multipart.FileHeader
		want   error
	}{
		{"jpg ok", &multipart.FileHeader{Filename: "eggs.JPG", Size: 100}, nil},
		{"webp ok", &multipart.FileHeader{Filename: "honey.webp", Size: 100}, nil},
		{"too large", &multipart.FileHeader{Filename: "eggs.jpg", Size: 2048}, ErrFileTooLarge},
		{"pdf rejected", &multipart.FileHeader{Filename: "invoice.pdf", Size: 10}, ErrInvalidFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.header, 1024)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestUniqueFilename(t *testing.T) {
	name := UniqueFilename("fresh eggs.png")
	assert.True(t, strings.HasSuffix(name, "_fresh_eggs.png"))

	long := UniqueFilename(strings.Repeat("a", 300) + ".png")
	assert.LessOrEqual(t, len(long), 255)
	assert.True(t, strings.HasSuffix(long, ".png"))
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	p, err := SafeJoin(root, "invoices/invoice_316.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "invoices", "invoice_316.pdf"), p)

	p, err = SafeJoin(root, "../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, root))
}

func TestDeleteFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, DeleteFile(root, "a.txt"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, DeleteFile(root, "missing.txt"))
}
