package auth

import (
	"net/http"
	"poolcare_server/lib"
	"time"

	"github.com/MonkyMars/gecho"
)

// HandleCSRF issues the double-submit token. The cookie outlives the access
// token so a long dashboard session does not need a fresh one after refresh.
func (arm *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateCSRFToken()
	if err != nil {
		arm.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Failed to generate CSRF token"), gecho.Send())
		return
	}

	lifetime := arm.cfg.Auth.RefreshTokenExpiry
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	lib.SetCSRFCookie(token, time.Now().Add(lifetime), w)

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"csrf_token": token,
			"header":     lib.CSRFHeaderName,
		}),
		gecho.Send(),
	)
}
