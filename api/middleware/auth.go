package middleware

import (
	"context"
	"errors"
	"net/http"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const ClaimsContextKey contextKey = "claims"

// RequireSession lets any signed-in user through.
func (mw *Middleware) RequireSession(next http.Handler) http.Handler {
	return mw.guard("")(next)
}

// RequireAdmin lets only admins through.
func (mw *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return mw.guard(tables.RoleAdmin)(next)
}

// guard resolves the caller's session and role and applies lib.DecideAccess.
// The role comes from the database, not the token, so the claims placed in the
// context carry the current role. Denials carry the path the client should
// navigate to.
func (mw *Middleware) guard(required tables.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, role, err := mw.session(r)
			if err != nil {
				mw.logger.Error("Failed to resolve session role", gecho.Field("error", err))
				gecho.InternalServerError(w, gecho.WithMessage("Failed to verify session"), gecho.Send())
				return
			}

			access := lib.DecideAccess(claims != nil, role, required, mw.cfg.Routes)
			if !access.Allowed {
				data := map[string]string{"redirect": access.Redirect}
				if access.Status == http.StatusUnauthorized {
					gecho.Unauthorized(w, gecho.WithMessage("Please sign in to continue"), gecho.WithData(data), gecho.Send())
					return
				}
				mw.logger.Warn("Role denied access", gecho.Field("user_id", claims.Sub), gecho.Field("role", role), gecho.Field("path", r.URL.Path))
				gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.WithData(data), gecho.Send())
				return
			}

			claims.Role = role
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// session returns nil claims for anonymous callers. An error means the role
// could not be looked up at all.
func (mw *Middleware) session(r *http.Request) (*structs.AuthClaims, tables.Role, error) {
	token, err := lib.GetCookieValue(lib.AccessCookieName, r)
	if err != nil || token == "" {
		return nil, "", nil
	}

	claims, err := mw.auth.Authenticate(token)
	if err != nil {
		mw.logger.Debug("Rejected access token", gecho.Field("error", err))
		return nil, "", nil
	}

	role, err := mw.roles.GetUserRole(r.Context(), claims.Sub)
	if errors.Is(err, lib.ErrNotFound) {
		mw.logger.Warn("Token for unknown user", gecho.Field("user_id", claims.Sub))
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return claims, role, nil
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
