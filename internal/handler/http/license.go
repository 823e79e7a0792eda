package http

import (
	"encoding/json"
	"net/http"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/models"
)

// createLicense issues a new entitlement key. The caller must present the
// admin key provisioned at first boot.
func (h *Handler) createLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.CreateLicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	if req.DurationDays < 0 {
		utils.WriteJSON(w, models.ErrorResponse{Error: "durationDays must not be negative"}, http.StatusBadRequest)
		return
	}

	if err := h.services.AdminService.VerifyKey(ctx, req.AdminKey); err != nil {
		h.respondError(w, r, err)
		return
	}

	license, err := h.services.LicenseService.Create(ctx, req.DurationDays)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.CreateLicenseResponse{LicenseKey: license.LicenseID}, http.StatusOK)
}
