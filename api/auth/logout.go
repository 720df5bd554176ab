package auth

import (
	"net/http"
	"poolcare_server/lib"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	accessToken, _ := lib.GetCookieValue(lib.AccessCookieName, r)
	refreshToken, _ := lib.GetCookieValue(lib.RefreshCookieName, r)

	if err := arm.authService.Logout(accessToken, refreshToken); err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to logout"),
			gecho.Send(),
		)
		return
	}

	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.WithData(map[string]string{"redirect": arm.cfg.Routes.LoginPath}),
		gecho.Send(),
	)
}
