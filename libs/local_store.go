package libs

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"farm-shop/utils"
)

// LocalStore writes documents and images under the uploads directory and
// returns paths relative to it.
type LocalStore struct {
	root          string
	invoiceDir    string
	maxUploadSize int64
}

func NewLocalStore(root string, maxUploadSize int64) *LocalStore {
	return &LocalStore{root: root, invoiceDir: "invoices", maxUploadSize: maxUploadSize}
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	rel := path.Join(s.invoiceDir, filepath.Base(name))
	full, err := utils.SafeJoin(s.root, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", fmt.Errorf("create invoice dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

func (s *LocalStore) SaveImage(_ context.Context, header *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidateImage(header, s.maxUploadSize); err != nil {
		return "", err
	}

	rel := path.Join(folder, utils.UniqueFilename(header.Filename))
	full, err := utils.SafeJoin(s.root, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", rel, err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("save %s: %w", rel, err)
	}
	return rel, nil
}

func (s *LocalStore) DeleteImage(_ context.Context, ref string) error {
	return utils.DeleteFile(s.root, ref)
}

// Resolve maps a stored reference back to an absolute path.
func (s *LocalStore) Resolve(ref string) (string, error) {
	return utils.SafeJoin(s.root, ref)
}
