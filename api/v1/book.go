package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/http/request"
	"github.com/tetherhq/tether-read/http/response"
	"github.com/tetherhq/tether-read/log"
	"github.com/tetherhq/tether-read/model"
	"github.com/tetherhq/tether-read/store"
	"github.com/tetherhq/tether-read/validator"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	req := model.ResolveListRequest(request.GetUserID(r), r.URL.Query())

	page, err := h.store.ListBooks(r.Context(), req)
	if err != nil {
		log.Error("Error listing books", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to list books"))
		return
	}
	response.OK(w, r, page)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	ownerID := request.GetUserID(r)
	bookID, ok := routeBookID(w, r)
	if !ok {
		return
	}

	book, err := h.store.GetBook(r.Context(), &model.FindBook{ID: &bookID, OwnerID: &ownerID})
	if err != nil {
		log.Error("Error getting book", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to get book"))
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, map[string]interface{}{"success": true, "book": book})
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, errors.New("invalid request body"))
		return
	}
	if err := validator.ValidateBookUpdate(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		response.NotFound(w, r)
		return
	}

	book, err := h.store.UpdateBookMeta(r.Context(), request.GetUserID(r), bookID, req.Title, req.Author)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error("Error updating book", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to update book"))
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, errors.New("invalid request body"))
		return
	}

	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		response.NotFound(w, r)
		return
	}

	err = h.store.RemoveBook(r.Context(), request.GetUserID(r), bookID)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error("Error deleting book", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to delete book"))
		return
	}
	// The object-storage entry is orphaned on purpose; cleanup runs
	// outside this server.
	response.OK(w, r, map[string]string{"success": "Book deleted successfully"})
}

// getBookURL proves ownership and issues a fresh time-limited read link.
func (h *Handler) getBookURL(w http.ResponseWriter, r *http.Request) {
	ownerID := request.GetUserID(r)
	bookID, ok := routeBookID(w, r)
	if !ok {
		return
	}

	book, err := h.store.GetBook(r.Context(), &model.FindBook{ID: &bookID, OwnerID: &ownerID})
	if err != nil {
		log.Error("Error getting book", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to get book"))
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	if !book.Readable() {
		// upload never finalized, the record is an orphan
		log.Warn("Refusing read link for unfinished upload",
			zap.String("book_id", book.ID.Hex()),
			zap.String("owner_id", ownerID),
		)
		response.NotFound(w, r)
		return
	}

	ttl := time.Duration(config.Opts.PresignTTL) * time.Minute
	url, err := h.objects.PresignGet(r.Context(), book.ObjectKey, ttl)
	if err != nil {
		log.Error("Error presigning book", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to generate read link"))
		return
	}
	response.OK(w, r, map[string]string{"url": url})
}

// routeBookID parses the {id} route parameter. A malformed id responds
// NotFound, the same as a record that does not exist.
func routeBookID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(request.RouteStringParam(r, "id"))
	if err != nil {
		response.NotFound(w, r)
		return primitive.NilObjectID, false
	}
	return id, true
}
