package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/media"
)

type UploadService interface {
	// UploadImage stages r on disk, hands it to the media host and returns
	// the public URL. The staged file is removed on every path.
	UploadImage(ctx context.Context, r io.Reader, filename string) (string, error)
}

type uploadService struct {
	logger   *slog.Logger
	uploader media.Uploader
	timeout  time.Duration
	tempDir  string
}

// NewUploadService creates an upload service. A zero timeout disables the deadline;
// an empty tempDir uses the OS default.
func NewUploadService(logger *slog.Logger, uploader media.Uploader, timeout time.Duration, tempDir string) UploadService {
	return &uploadService{
		logger:   logger.With(slog.String("service", "upload")),
		uploader: uploader,
		timeout:  timeout,
		tempDir:  tempDir,
	}
}

func (s *uploadService) UploadImage(ctx context.Context, r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	tmp, err := os.CreateTemp(s.tempDir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "error removing staged upload",
				slog.String("path", tmp.Name()),
				slog.Any("error", err))
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close staged upload: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	url, err := s.uploader.Upload(ctx, tmp.Name())
	if err != nil {
		return "", apperr.UploadFailedErr.WrapParent(err)
	}

	return url, nil
}
