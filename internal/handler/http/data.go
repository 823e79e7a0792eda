package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/models"
)

// saveData stores the caller's blob. The payload travels as an opaque
// string; the service encrypts it before it reaches the store.
func (h *Handler) saveData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionKey := chi.URLParam(r, "sessionKey")

	var req models.SaveDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	if _, err := h.services.DataService.Save(ctx, sessionKey, []byte(req.Payload)); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// loadData returns the caller's blob decrypted.
func (h *Handler) loadData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionKey := chi.URLParam(r, "sessionKey")

	data, err := h.services.DataService.Load(ctx, sessionKey)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.LoadDataResponse{
		Payload: string(data.Payload),
		SavedAt: data.CreatedAt,
	}, http.StatusOK)
}
