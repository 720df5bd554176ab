package middleware

import (
	"net/http"
	"poolcare_server/api/health"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests no route claimed, so scanners probing random
// paths cannot grow the series count.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latency by route pattern.
// Websocket sessions are counted but kept out of the latency histogram since
// they last as long as the client stays connected.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if route == "/metrics" {
			return
		}

		status := ww.Status()
		if status == 0 {
			// hijacked connections never write a status through the wrapper
			status = http.StatusSwitchingProtocols
		}

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   route,
			"status": strconv.Itoa(status),
		}
		health.HttpRequests.With(labels).Inc()
		if !strings.HasPrefix(route, "/ws/") {
			health.HttpDuration.With(labels).Observe(time.Since(start).Seconds())
		}
	})
}
