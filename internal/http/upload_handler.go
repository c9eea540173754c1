package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/dto"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
)

const (
	uploadField = "image"

	// parts above this size are spooled to disk by the multipart reader
	multipartMemory = 8 << 20
)

type uploadHandler struct {
	uploadSvc service.UploadService
	maxBytes  int64
}

func newUploadHandler(uploadSvc service.UploadService, maxBytes int64) *uploadHandler {
	return &uploadHandler{
		uploadSvc: uploadSvc,
		maxBytes:  maxBytes,
	}
}

func (h *uploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) error {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.ImageTooLargeErr.WrapParent(err)
		}
		return apperr.ImageRequiredErr.WrapParent(err)
	}
	//nolint:errcheck
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[uploadField]
	if len(files) != 1 {
		return apperr.ImageRequiredErr.WrapParent(fmt.Errorf("got %d files", len(files)))
	}

	f, err := files[0].Open()
	if err != nil {
		return fmt.Errorf("open multipart file: %w", err)
	}
	defer f.Close()

	url, err := h.uploadSvc.UploadImage(r.Context(), f, files[0].Filename)
	if err != nil {
		return fmt.Errorf("upload service upload image: %w", err)
	}

	return writeJSON(w, http.StatusOK, dto.UploadResponse{Url: url})
}
