package http

import (
	"errors"
	"net/http"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/service"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/internal/validators"
	"github.com/anexlab/gatekeeper/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrInvalidAdminKey:    http.StatusUnauthorized,
	service.ErrInvalidSession:     http.StatusUnauthorized,
	service.ErrAccountNotActive:   http.StatusForbidden,
	service.ErrInvalidLicense:     http.StatusBadRequest,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrUserDataNotFound:      http.StatusNotFound,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrExecutingStatement:    http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the uniform rejected-request body. Infrastructure
// faults are logged with full detail but surface as a generic server
// failure, without leaking internals to the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var formatErr *validators.FormatError
	if errors.As(err, &formatErr) {
		log.Warn().Err(err).Msg("request rejected, invalid field format")
		utils.WriteJSON(w, models.ErrorResponse{Error: formatErr.Error()}, http.StatusBadRequest)
		return
	}

	var throttled *service.ThrottledError
	if errors.As(err, &throttled) {
		log.Warn().Int("retry_after_minutes", throttled.RetryAfterMinutes).Msg("request rejected, login throttled")
		utils.WriteJSON(w, models.ErrorResponse{
			Error:             throttled.Error(),
			RetryAfterMinutes: throttled.RetryAfterMinutes,
		}, http.StatusTooManyRequests)
		return
	}

	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed with server error")
		utils.WriteJSON(w, models.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}, status)
		return
	}

	log.Warn().Err(err).Int("status", status).Msg("request rejected")
	utils.WriteJSON(w, models.ErrorResponse{Error: err.Error()}, status)
}
