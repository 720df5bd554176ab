package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"poolcare_server/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	dbErr    error
	cacheErr error
}

func (f *fakeChecker) GetServerHealthStatus() services.ServerHealthStatus {
	return services.ServerHealthStatus{ServiceAlive: true, CurrentTime: time.Now()}
}

func (f *fakeChecker) GetDatabaseHealthStatus(context.Context) (services.DependencyHealthStatus, error) {
	return services.DependencyHealthStatus{Connected: f.dbErr == nil}, f.dbErr
}

func (f *fakeChecker) GetCacheHealthStatus() (services.DependencyHealthStatus, error) {
	return services.DependencyHealthStatus{Connected: f.cacheErr == nil}, f.cacheErr
}

func (f *fakeChecker) OpenConnections() int { return 3 }

type fakeSubscribers int

func (f fakeSubscribers) Clients() int { return int(f) }

func TestHealthRoutes(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name       string
		checker    *fakeChecker
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "server", checker: &fakeChecker{}, path: "/health/server", wantStatus: http.StatusOK, wantBody: "service_alive"},
		{name: "database up", checker: &fakeChecker{}, path: "/health/database", wantStatus: http.StatusOK, wantBody: `"connected":true`},
		{name: "database down", checker: &fakeChecker{dbErr: down}, path: "/health/database", wantStatus: http.StatusServiceUnavailable, wantBody: "Database health check failed"},
		{name: "cache down", checker: &fakeChecker{cacheErr: down}, path: "/health/cache", wantStatus: http.StatusServiceUnavailable, wantBody: "Cache health check failed"},
		{name: "realtime", checker: &fakeChecker{}, path: "/health/realtime", wantStatus: http.StatusOK, wantBody: `"subscribers":2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewHealthRoutesManager(tt.checker, fakeSubscribers(2)).RegisterRoutes(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := chi.NewRouter()
	NewHealthRoutesManager(&fakeChecker{}, fakeSubscribers(5)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "poolcare_realtime_subscribers")
	assert.Contains(t, rec.Body.String(), "poolcare_database_open_connections")
}
