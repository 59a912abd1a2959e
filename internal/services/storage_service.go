package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"vidtube/internal/config"
)

const (
	ResourceImage = "image"
	ResourceVideo = "video"

	uploadTimeout = 5 * time.Minute
)

// UploadedFile is the stable reference an object store hands back for a
// stored asset.
type UploadedFile struct {
	PublicID string
	URL      string
}

// StorageService wraps the object storage collaborator. Upload failures
// are fatal for the calling request; Destroy failures are expected to be
// logged and ignored by callers.
type StorageService interface {
	Upload(ctx context.Context, file io.Reader, folder, resourceType string) (*UploadedFile, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cfg *config.Config) (StorageService, error) {
	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s",
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryCloudName,
	)

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, file io.Reader, folder, resourceType string) (*UploadedFile, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		ResourceType: resourceType,
		Folder:       folder,
	})
	if err != nil {
		return nil, err
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	if url == "" {
		return nil, fmt.Errorf("cloudinary returned no URL for upload in %s", folder)
	}

	return &UploadedFile{PublicID: res.PublicID, URL: url}, nil
}

func (s *cloudinaryStorage) Destroy(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	return err
}
