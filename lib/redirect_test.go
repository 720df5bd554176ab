package lib

import (
	"net/http"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideAccess(t *testing.T) {
	routes := &structs.RoutesConfig{LoginPath: "/login", AdminHome: "/admin", CustomerHome: "/dashboard"}

	tests := []struct {
		name          string
		authenticated bool
		role          tables.Role
		required      tables.Role
		want          Access
	}{
		{"anonymous", false, "", "", Access{Status: http.StatusUnauthorized, Redirect: "/login"}},
		{"anonymous on admin route", false, "", tables.RoleAdmin, Access{Status: http.StatusUnauthorized, Redirect: "/login"}},
		{"customer on session route", true, tables.RoleCustomer, "", Access{Allowed: true, Status: http.StatusOK}},
		{"customer on admin route", true, tables.RoleCustomer, tables.RoleAdmin, Access{Status: http.StatusForbidden, Redirect: "/dashboard"}},
		{"admin on admin route", true, tables.RoleAdmin, tables.RoleAdmin, Access{Allowed: true, Status: http.StatusOK}},
		{"admin on customer-only route", true, tables.RoleAdmin, tables.RoleCustomer, Access{Status: http.StatusForbidden, Redirect: "/admin"}},
		{"unknown role", true, "", tables.RoleAdmin, Access{Status: http.StatusForbidden, Redirect: "/dashboard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideAccess(tt.authenticated, tt.role, tt.required, routes))
		})
	}
}
