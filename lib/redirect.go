package lib

import (
	"net/http"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
)

// Access is the outcome of a route guard decision.
type Access struct {
	Allowed  bool
	Status   int
	Redirect string
}

// HomeFor returns the landing page for a role.
func HomeFor(role tables.Role, routes *structs.RoutesConfig) string {
	if role == tables.RoleAdmin {
		return routes.AdminHome
	}
	return routes.CustomerHome
}

// DecideAccess gates a route on an authenticated session and, when required is
// set, a role. Unauthenticated callers go to the login path; callers with the
// wrong role go to their own home.
func DecideAccess(authenticated bool, role, required tables.Role, routes *structs.RoutesConfig) Access {
	if !authenticated {
		return Access{Status: http.StatusUnauthorized, Redirect: routes.LoginPath}
	}
	if required != "" && role != required {
		return Access{Status: http.StatusForbidden, Redirect: HomeFor(role, routes)}
	}
	return Access{Allowed: true, Status: http.StatusOK}
}
