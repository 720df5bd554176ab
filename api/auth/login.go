package auth

import (
	"errors"
	"net/http"
	"poolcare_server/lib"
	"poolcare_server/services"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your login information and try again"), gecho.Send())
		return
	}

	user, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
			return
		}
		arm.logger.Error("Login failed", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	tokens, err := arm.authService.IssueTokens(user)
	if err != nil {
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}
	setSessionCookies(w, tokens)

	arm.respondSession(w, r, user, "Login successful")
}

func setSessionCookies(w http.ResponseWriter, tokens *services.AuthTokens) {
	lib.SetCookie(lib.AccessCookieName, tokens.AccessToken, tokens.AccessExpiresAt, w)
	lib.SetCookie(lib.RefreshCookieName, tokens.RefreshToken, tokens.RefreshExpiresAt, w)
}

// respondSession answers with the user, their current role and the page the
// client should land on.
func (arm *AuthRoutesManager) respondSession(w http.ResponseWriter, r *http.Request, user *tables.User, msg string) {
	role, err := arm.roleService.GetUserRole(r.Context(), user.Id)
	if err != nil {
		arm.logger.Warn("Falling back to stored role", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		role = user.Role
	}

	gecho.Success(w,
		gecho.WithMessage(msg),
		gecho.WithData(structs.Session{
			User: user,
			Role: role,
			Home: lib.HomeFor(role, arm.cfg.Routes),
		}),
		gecho.Send(),
	)
}
