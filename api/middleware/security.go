package middleware

import (
	"net/http"
	"poolcare_server/lib"
	"strings"

	"github.com/MonkyMars/gecho"
)

// privatePrefixes serve per-user data that shared caches must not keep.
var privatePrefixes = []string{"/auth/", "/dashboard", "/admin"}

func (mw *Middleware) SecurityHeaders() func(http.Handler) http.Handler {
	production := mw.cfg.Server.Environment == "production"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// attachment URLs point at the object store, never at this API
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Permissions-Policy", "geolocation=(), camera=(), microphone=()")
			if production {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			for _, prefix := range privatePrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					h.Set("Cache-Control", "no-store")
					break
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimit caps request bodies. A declared length over the cap is refused
// before the handler runs; chunked bodies are cut off while reading.
func (mw *Middleware) BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				mw.logger.Warn("Request body too large", gecho.Field("path", r.URL.Path), gecho.Field("length", r.ContentLength))
				gecho.BadRequest(w, gecho.WithMessage("Request body too large"), gecho.Send())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFMiddleware enforces the double-submit token on state-changing requests.
func (mw *Middleware) CSRFMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !lib.ValidCSRF(r) {
				mw.logger.Warn("CSRF check failed", gecho.Field("path", r.URL.Path), gecho.Field("origin", r.Header.Get("Origin")))
				gecho.Forbidden(w, gecho.WithMessage("Invalid or missing CSRF token"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
