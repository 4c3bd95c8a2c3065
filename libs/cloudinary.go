package libs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"farm-shop/config"
	"farm-shop/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

var ErrCloudinaryNotConfigured = errors.New("cloudinary environment variables not set")

// CloudinaryStore keeps invoices (raw resources) and product images in
// Cloudinary and hands back their secure URLs.
type CloudinaryStore struct {
	cld           *cloudinary.Cloudinary
	invoiceFolder string
	maxUploadSize int64
}

// NewCloudinaryStore prefers the separate credential variables and falls
// back to CLOUDINARY_URL.
func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, fmt.Errorf("cloudinary init from params: %w", err)
		}
	case cfg.CloudinaryURL != "":
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("cloudinary init from URL: %w", err)
		}
	default:
		return nil, ErrCloudinaryNotConfigured
	}

	return &CloudinaryStore{cld: cld, invoiceFolder: "invoices", maxUploadSize: cfg.MaxUploadSize}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     strings.TrimSuffix(name, filepath.Ext(name)),
		Folder:       s.invoiceFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to cloudinary: %w", name, err)
	}
	return secureURL(resp)
}

func (s *CloudinaryStore) SaveImage(ctx context.Context, header *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidateImage(header, s.maxUploadSize); err != nil {
		return "", err
	}
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	filename := utils.UniqueFilename(header.Filename)
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       strings.TrimSuffix(filename, filepath.Ext(filename)),
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload image to cloudinary: %w", err)
	}
	return secureURL(resp)
}

// DeleteImage takes the secure URL returned by SaveImage.
func (s *CloudinaryStore) DeleteImage(ctx context.Context, ref string) error {
	return s.Delete(ctx, publicIDFromURL(ref), "image")
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		return nil
	}
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("delete from cloudinary: %w", err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}

func secureURL(resp *uploader.UploadResult) (string, error) {
	if resp == nil {
		return "", errors.New("cloudinary response is nil")
	}
	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	if resp.URL != "" {
		config.Logger.Warn("cloudinary returned no secure url", zap.String("public_id", resp.PublicID))
		return resp.URL, nil
	}
	return "", errors.New("both SecureURL and URL are empty")
}

var versionSegment = regexp.MustCompile(`^v[0-9]+$`)

// publicIDFromURL turns
// https://res.cloudinary.com/<cloud>/image/upload/v1712/products/abc.jpg
// into products/abc. It returns "" for anything that is not a delivery URL.
func publicIDFromURL(ref string) string {
	_, rest, ok := strings.Cut(ref, "/upload/")
	if !ok {
		return ""
	}
	segments := strings.Split(rest, "/")
	for i, seg := range segments {
		if versionSegment.MatchString(seg) {
			segments = segments[i+1:]
			break
		}
	}
	id := strings.Join(segments, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}
