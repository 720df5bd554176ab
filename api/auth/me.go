package auth

import (
	"net/http"
	"poolcare_server/api/middleware"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	user, err := arm.authService.GetUserByID(r.Context(), claims.Sub)
	if err != nil {
		gecho.InternalServerError(w, gecho.WithMessage("Failed to load account"), gecho.Send())
		return
	}
	if user == nil {
		gecho.Unauthorized(w,
			gecho.WithMessage("Please sign in to continue"),
			gecho.WithData(map[string]string{"redirect": arm.cfg.Routes.LoginPath}),
			gecho.Send(),
		)
		return
	}

	arm.respondSession(w, r, user, "")
}
