package v1

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/http/request"
	"github.com/tetherhq/tether-read/http/response"
	"github.com/tetherhq/tether-read/log"
	"github.com/tetherhq/tether-read/model"
	"github.com/tetherhq/tether-read/storage"
	"github.com/tetherhq/tether-read/util/parsers/epub"
	"github.com/tetherhq/tether-read/validator"
)

// uploadBook runs the upload pipeline: validate, insert a placeholder
// record, stream bytes to object storage, finalize the record, respond
// with a fresh read link.
func (h *Handler) uploadBook(w http.ResponseWriter, r *http.Request) {
	ownerID := request.GetUserID(r)

	if err := r.ParseMultipartForm(config.Opts.MaxUploadSize << 20); err != nil {
		log.Debug("Failed to parse multipart form", zap.Error(err))
		response.BadRequest(w, r, errors.New("invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, r, errors.New("no file uploaded"))
		return
	}
	defer file.Close()

	if err := validator.ValidateUpload(header); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if validator.ExceedsSizeLimit(header.Size) {
		response.PayloadTooLarge(w, r, errors.Errorf("file too large, max %dMB allowed", config.Opts.MaxUploadSize))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	author := strings.TrimSpace(r.FormValue("author"))
	if title == "" {
		// fall back to the EPUB's own metadata, then the filename
		if meta, err := epub.NewReader(file, header.Size); err == nil {
			title = strings.TrimSpace(meta.GetTitle())
			if author == "" {
				author = strings.TrimSpace(meta.GetAuthor())
			}
		} else {
			log.Debug("Failed to read epub metadata", zap.Error(err))
		}
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	}

	book, err := h.store.CreatePlaceholder(r.Context(), &model.Book{
		OwnerID: ownerID,
		Title:   title,
		Author:  author,
	})
	if err != nil {
		log.Error("Error creating book record", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to create book record"))
		return
	}

	if _, err := file.Seek(0, 0); err != nil {
		response.ServerError(w, r, errors.New("failed to read upload"))
		return
	}

	objectKey := storage.BuildObjectKey(ownerID, book.ID.Hex())
	if err := h.objects.Put(r.Context(), objectKey, file, header.Size, "application/epub+zip"); err != nil {
		// The placeholder record stays behind without a valid key and
		// is never offered for reading. Reconciliation is operational.
		log.Error("Error streaming upload to storage, record orphaned",
			zap.Error(err),
			zap.String("book_id", book.ID.Hex()),
			zap.String("owner_id", ownerID),
		)
		response.ServerError(w, r, errors.New("failed to store book file"))
		return
	}

	if err := h.store.FinalizeUpload(r.Context(), book.ID, objectKey); err != nil {
		log.Error("Error finalizing upload", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to finalize upload"))
		return
	}

	ttl := time.Duration(config.Opts.PresignTTL) * time.Minute
	signedURL, err := h.objects.PresignGet(r.Context(), objectKey, ttl)
	if err != nil {
		log.Error("Error presigning uploaded book", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to generate read link"))
		return
	}

	log.Info("Book uploaded",
		zap.String("book_id", book.ID.Hex()),
		zap.String("owner_id", ownerID),
		zap.Int64("size", header.Size),
	)
	response.OK(w, r, map[string]interface{}{
		"message":   "Book uploaded successfully",
		"bookId":    book.ID.Hex(),
		"user":      book.OwnerID,
		"time":      book.CreatedAt,
		"signedUrl": signedURL,
	})
}
