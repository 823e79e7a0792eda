package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/models"
)

const accessTokenHeader = "X-Access-Token"

// withAccessToken gates mutating endpoints behind the pre-shared token
// configured at boot. The comparison is constant time.
func (h *Handler) withAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get(accessTokenHeader)

		if subtle.ConstantTimeCompare([]byte(presented), []byte(h.accessToken)) != 1 {
			logger.FromRequest(r).Warn().Str("uri", r.RequestURI).Msg("request rejected, missing or invalid access token")
			utils.WriteJSON(w, models.ErrorResponse{Error: "missing or invalid access token"}, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
