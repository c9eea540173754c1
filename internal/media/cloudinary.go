package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
)

var _ Uploader = (*Cloudinary)(nil)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cfg config.Media) (*Cloudinary, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	return &Cloudinary{
		cld:    cld,
		folder: cfg.CloudinaryFolder,
	}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, localPath string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	// API-level failures come back in the body, not as err.
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure url")
	}

	return res.SecureURL, nil
}
