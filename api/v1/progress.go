package v1

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/http/request"
	"github.com/tetherhq/tether-read/http/response"
	"github.com/tetherhq/tether-read/log"
	"github.com/tetherhq/tether-read/model"
	"github.com/tetherhq/tether-read/store"
	"github.com/tetherhq/tether-read/validator"
)

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	ownerID := request.GetUserID(r)
	bookID, ok := routeBookID(w, r)
	if !ok {
		return
	}

	book, err := h.store.GetBook(r.Context(), &model.FindBook{ID: &bookID, OwnerID: &ownerID})
	if err != nil {
		log.Error("Error getting progress", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to get progress"))
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, map[string]string{"cfi": book.CFI})
}

func (h *Handler) putProgress(w http.ResponseWriter, r *http.Request) {
	ownerID := request.GetUserID(r)
	bookID, ok := routeBookID(w, r)
	if !ok {
		return
	}

	var req model.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, errors.New("invalid request body"))
		return
	}
	if err := validator.ValidateProgress(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	err := h.store.UpdateProgress(r.Context(), ownerID, bookID, req.CFI, *req.Percentage)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error("Error saving progress", zap.Error(err))
		response.ServerError(w, r, errors.New("failed to save progress"))
		return
	}
	response.OK(w, r, map[string]string{"success": "Book progress saved successfully"})
}
