package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("invalid file type, only images are allowed")
	ErrUnsafePath      = errors.New("path escapes the upload directory")
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func ValidateImage(header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return ErrInvalidFileType
	}
	return nil
}

// UniqueFilename prefixes the cleaned name with a timestamp, keeping it
// under the usual 255 byte limit.
func UniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.ReplaceAll(filepath.Base(original), " ", "_")
	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), base)
	if len(filename) > 255 {
		filename = fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	}
	return filename
}

// SafeJoin resolves rel under root and rejects anything that would land
// outside it.
func SafeJoin(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(absRoot, filepath.Clean("/"+rel))
	if full != absRoot && !strings.HasPrefix(full, absRoot+string(os.PathSeparator)) {
		return "", ErrUnsafePath
	}
	return full, nil
}

func DeleteFile(root, rel string) error {
	fullPath, err := SafeJoin(root, rel)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); err == nil {
		return os.Remove(fullPath)
	}
	return nil
}
