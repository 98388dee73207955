package validator // import "github.com/tetherhq/tether-read/validator"

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/model"
)

// ValidateUpload checks an uploaded file's declared type and size before
// any bytes leave the request. Only EPUB files within the configured
// ceiling are accepted.
func ValidateUpload(header *multipart.FileHeader) error {
	if header == nil {
		return errors.New("no file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	declaredType := header.Header.Get("Content-Type")
	if ext != ".epub" && !config.CheckSupportedTypes(declaredType) {
		return errors.New("invalid file type, only .epub allowed")
	}
	// octet-stream is accepted only with a matching extension
	if declaredType == "application/octet-stream" && ext != ".epub" {
		return errors.New("invalid file type, only .epub allowed")
	}

	return nil
}

// ExceedsSizeLimit reports whether the upload is over the configured
// ceiling (in MiB).
func ExceedsSizeLimit(size int64) bool {
	return size > config.Opts.MaxUploadSize<<20
}

// ValidateProgress checks a position write: the locator is required and
// the percentage must be present and within bounds.
func ValidateProgress(req *model.UpdateProgressRequest) error {
	if strings.TrimSpace(req.CFI) == "" {
		return errors.New("cfi cannot be empty")
	}
	if req.Percentage == nil {
		return errors.New("percentage must be a number")
	}
	if *req.Percentage < 0 || *req.Percentage > 100 {
		return errors.Errorf("percentage %v out of range [0,100]", *req.Percentage)
	}
	return nil
}

// ValidateBookUpdate checks an owner's metadata edit. A title, when
// supplied, must remain non-empty.
func ValidateBookUpdate(req *model.UpdateBookRequest) error {
	if req.BookID == "" {
		return errors.New("bookId is required")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return errors.New("title cannot be empty")
	}
	return nil
}
