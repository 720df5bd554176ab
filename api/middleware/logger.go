package middleware

import (
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// quietPrefixes are polled by probes and scrapers and would drown the request log.
var quietPrefixes = []string{"/health/", "/metrics"}

func (mw *Middleware) SetupLoggerMiddleware() func(http.Handler) http.Handler {
	logRequests := gecho.Handlers.CreateLoggingMiddleware(mw.logger)

	return func(next http.Handler) http.Handler {
		logged := logRequests(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range quietPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			logged.ServeHTTP(w, r)
		})
	}
}
