package auth

import (
	"net/http"
	"poolcare_server/lib"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil {
		gecho.Unauthorized(w, gecho.WithMessage("Refresh token missing"), gecho.Send())
		return
	}

	user, tokens, err := arm.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		arm.logger.Warn("Failed to refresh session", gecho.Field("error", err))
		lib.ClearCookie(lib.AccessCookieName, w)
		lib.ClearCookie(lib.RefreshCookieName, w)
		gecho.Unauthorized(w,
			gecho.WithMessage("Invalid refresh token"),
			gecho.WithData(map[string]string{"redirect": arm.cfg.Routes.LoginPath}),
			gecho.Send(),
		)
		return
	}
	setSessionCookies(w, tokens)

	arm.respondSession(w, r, user, "Session refreshed")
}
