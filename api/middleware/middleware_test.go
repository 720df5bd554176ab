package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"poolcare_server/config"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	claims map[string]*structs.AuthClaims
}

func (f *fakeAuth) Authenticate(token string) (*structs.AuthClaims, error) {
	if c, ok := f.claims[token]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, lib.ErrInvalidToken
}

type fakeRoles struct {
	roles map[uuid.UUID]tables.Role
	err   error
}

func (f *fakeRoles) GetUserRole(_ context.Context, id uuid.UUID) (tables.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[id]
	if !ok {
		return "", lib.ErrNotFound
	}
	return role, nil
}

type fakeCounter struct {
	counts map[string]int
	err    error
}

func (f *fakeCounter) IncrementRateLimit(ip, endpoint string, _ time.Duration) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[ip+":"+endpoint]++
	return f.counts[ip+":"+endpoint], nil
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{Environment: "production"},
		Routes: &structs.RoutesConfig{LoginPath: "/login", AdminHome: "/admin", CustomerHome: "/dashboard"},
		RateLimit: &structs.RateLimitConfig{
			Enabled:          true,
			GeneralLimit:     3,
			GeneralWindow:    time.Minute,
			AuthLimit:        1,
			AuthWindow:       time.Minute,
			AdminLimit:       5,
			AdminWindow:      time.Minute,
			PublicFormLimit:  2,
			PublicFormWindow: time.Hour,
		},
	}
}

var (
	adminID    = uuid.New()
	customerID = uuid.New()
	goneID     = uuid.New()
)

func newTestMiddleware(roles *fakeRoles, counter *fakeCounter) *Middleware {
	auth := &fakeAuth{claims: map[string]*structs.AuthClaims{
		"admin-token":    {Sub: adminID, Role: tables.RoleCustomer},
		"customer-token": {Sub: customerID, Role: tables.RoleCustomer},
		"gone-token":     {Sub: goneID, Role: tables.RoleCustomer},
	}}
	if roles == nil {
		roles = &fakeRoles{roles: map[uuid.UUID]tables.Role{
			adminID:    tables.RoleAdmin,
			customerID: tables.RoleCustomer,
		}}
	}
	if counter == nil {
		counter = &fakeCounter{counts: map[string]int{}}
	}
	return NewMiddleware(testConfig(), config.NewLogger(false), auth, roles, counter)
}

func withToken(r *http.Request, token string) *http.Request {
	if token != "" {
		r.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: token})
	}
	return r
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name         string
		admin        bool
		token        string
		wantStatus   int
		wantRedirect string
	}{
		{"anonymous session", false, "", http.StatusUnauthorized, "/login"},
		{"bad token", false, "forged", http.StatusUnauthorized, "/login"},
		{"deleted user", false, "gone-token", http.StatusUnauthorized, "/login"},
		{"customer session", false, "customer-token", http.StatusOK, ""},
		{"admin session", false, "admin-token", http.StatusOK, ""},
		{"anonymous admin route", true, "", http.StatusUnauthorized, "/login"},
		{"customer on admin route", true, "customer-token", http.StatusForbidden, "/dashboard"},
		{"admin on admin route", true, "admin-token", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := newTestMiddleware(nil, nil)
			var seen *structs.AuthClaims
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := mw.RequireSession(next)
			if tt.admin {
				handler = mw.RequireAdmin(next)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, withToken(httptest.NewRequest(http.MethodGet, "/x", nil), tt.token))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantRedirect != "" {
				assert.Contains(t, rec.Body.String(), tt.wantRedirect)
				assert.Nil(t, seen)
			}
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
			}
		})
	}
}

func TestGuardUsesCurrentRole(t *testing.T) {
	mw := newTestMiddleware(nil, nil)
	var seen *structs.AuthClaims
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetClaimsFromContext(r.Context())
	}))

	// the token still says customer; the database says admin
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withToken(httptest.NewRequest(http.MethodGet, "/admin", nil), "admin-token"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, tables.RoleAdmin, seen.Role)
	assert.Equal(t, adminID, seen.Sub)
}

func TestGuardRoleLookupFailure(t *testing.T) {
	mw := newTestMiddleware(&fakeRoles{err: errors.New("connection refused")}, nil)
	handler := mw.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withToken(httptest.NewRequest(http.MethodGet, "/x", nil), "customer-token"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCSRFMiddleware(t *testing.T) {
	mw := newTestMiddleware(nil, nil)
	handler := mw.CSRFMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		method string
		cookie string
		header string
		want   int
	}{
		{"get skips check", http.MethodGet, "", "", http.StatusNoContent},
		{"missing cookie", http.MethodPost, "", "abc", http.StatusForbidden},
		{"missing header", http.MethodPost, "abc", "", http.StatusForbidden},
		{"mismatch", http.MethodDelete, "abc", "abd", http.StatusForbidden},
		{"match", http.MethodPost, "abc", "abc", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/contact", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(lib.CSRFHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestLimitFor(t *testing.T) {
	mw := newTestMiddleware(nil, nil)

	tests := []struct {
		path, method string
		bucket       string
		limit        int
	}{
		{"/auth/login", http.MethodPost, "auth", 1},
		{"/auth/me", http.MethodGet, "general", 3},
		{"/contact", http.MethodPost, "form", 2},
		{"/quotes", http.MethodPost, "form", 2},
		{"/admin/products", http.MethodGet, "admin", 5},
		{"/administrators", http.MethodGet, "general", 3},
		{"/catalog/products", http.MethodGet, "general", 3},
	}
	for _, tt := range tests {
		bucket, limit, _ := mw.limitFor(tt.path, tt.method)
		assert.Equal(t, tt.bucket, bucket, tt.path)
		assert.Equal(t, tt.limit, limit, tt.path)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"10.0.0.1:5555", "10.0.0.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"10.0.0.9", "10.0.0.9"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, clientIP(r), tt.remote)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "/admin/products/:id/toggle", normalizeEndpoint("/admin/products/"+id.String()+"/toggle"))
	assert.Equal(t, "/catalog/bundles", normalizeEndpoint("/catalog/bundles/"))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks over limit", func(t *testing.T) {
		mw := newTestMiddleware(nil, nil)
		handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		codes := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/contact", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("fails open on cache error", func(t *testing.T) {
		mw := newTestMiddleware(nil, &fakeCounter{err: errors.New("redis down")})
		handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health is exempt", func(t *testing.T) {
		mw := newTestMiddleware(nil, &fakeCounter{err: errors.New("must not be called")})
		called := false
		handler := mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/server", nil))
		assert.True(t, called)
	})
}

func TestSecurityHeaders(t *testing.T) {
	mw := newTestMiddleware(nil, nil)
	handler := mw.SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		path      string
		wantCache string
	}{
		{path: "/catalog/products", wantCache: ""},
		{path: "/dashboard/invoices", wantCache: "no-store"},
		{path: "/admin/categories", wantCache: "no-store"},
		{path: "/auth/me", wantCache: "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestBodyLimit(t *testing.T) {
	mw := newTestMiddleware(nil, nil)
	reached := false
	handler := mw.BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, reached)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("tiny")))
	assert.True(t, reached)
}
