package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
)

type fakeUploader struct {
	url        string
	err        error
	gotPath    string
	gotContent string
	deadline   bool
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (string, error) {
	f.gotPath = localPath
	content, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	f.gotContent = string(content)
	_, f.deadline = ctx.Deadline()
	return f.url, f.err
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestUploadServiceUploadImage(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Should stage file, return url and clean up", func(t *testing.T) {
		dir := t.TempDir()
		uploader := &fakeUploader{url: "https://cdn.example/abc.jpg"}
		svc := service.NewUploadService(logger, uploader, time.Minute, dir)

		url, err := svc.UploadImage(ctx, strings.NewReader("jpeg-bytes"), "photo.JPG")
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example/abc.jpg", url)
		assert.Equal(t, "jpeg-bytes", uploader.gotContent)
		assert.Equal(t, ".jpg", filepath.Ext(uploader.gotPath))
		assert.True(t, uploader.deadline)
		assert.NoFileExists(t, uploader.gotPath)
	})

	t.Run("Should wrap adapter failure and clean up", func(t *testing.T) {
		dir := t.TempDir()
		uploader := &fakeUploader{err: errors.New("503 from host")}
		svc := service.NewUploadService(logger, uploader, 0, dir)

		_, err := svc.UploadImage(ctx, strings.NewReader("x"), "a.png")
		assert.ErrorIs(t, err, apperr.UploadFailedErr)
		assert.False(t, uploader.deadline)
		assert.NoFileExists(t, uploader.gotPath)
	})

	t.Run("Should clean up when staging fails", func(t *testing.T) {
		dir := t.TempDir()
		uploader := &fakeUploader{}
		svc := service.NewUploadService(logger, uploader, 0, dir)

		_, err := svc.UploadImage(ctx, failingReader{}, "a.png")
		assert.Error(t, err)
		assert.Empty(t, uploader.gotPath)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
