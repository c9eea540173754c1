// Package media hosts uploaded images and returns their public URL.
package media

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
)

// Uploader moves a locally staged file to durable hosting.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (publicURL string, err error)
}

// New returns the uploader selected by cfg.Driver.
func New(cfg config.Media) (Uploader, error) {
	switch cfg.Driver {
	case config.MediaDriverCloudinary:
		return NewCloudinary(cfg)
	case config.MediaDriverLocal:
		return NewLocal(cfg.LocalDir, cfg.LocalBaseURL+cfg.LocalPublicPath)
	default:
		return nil, fmt.Errorf("unsupported media driver: %s", cfg.Driver)
	}
}
