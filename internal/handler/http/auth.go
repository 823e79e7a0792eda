package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	user, err := h.services.AccountService.Register(ctx, req.Username, req.Email, req.Password, req.LicenseKey)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.RegisterResponse{UserID: user.UserID}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	session, err := h.services.AccountService.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{SessionKey: session.SessionKey}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionKey := chi.URLParam(r, "sessionKey")
	if err := h.services.AccountService.Logout(ctx, sessionKey); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
