package middleware

import (
	"net"
	"net/http"
	"poolcare_server/structs"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type rateRule struct {
	bucket string
	match  func(path, method string) bool
	limits func(rl *structs.RateLimitConfig) (int, time.Duration)
}

// rateRules are checked in order; the first match wins and general applies otherwise.
var rateRules = []rateRule{
	{
		bucket: "auth",
		match: func(path, _ string) bool {
			return path == "/auth/login" || path == "/auth/logout" || path == "/auth/refresh"
		},
		limits: func(rl *structs.RateLimitConfig) (int, time.Duration) { return rl.AuthLimit, rl.AuthWindow },
	},
	{
		// public forms send email, so they get their own small budget
		bucket: "form",
		match: func(path, method string) bool {
			return method == http.MethodPost && (path == "/contact" || path == "/quotes")
		},
		limits: func(rl *structs.RateLimitConfig) (int, time.Duration) {
			return rl.PublicFormLimit, rl.PublicFormWindow
		},
	},
	{
		bucket: "admin",
		match:  func(path, _ string) bool { return path == "/admin" || strings.HasPrefix(path, "/admin/") },
		limits: func(rl *structs.RateLimitConfig) (int, time.Duration) { return rl.AdminLimit, rl.AdminWindow },
	},
}

// limitFor picks the bucket, limit and window for a request.
func (mw *Middleware) limitFor(path, method string) (string, int, time.Duration) {
	rl := mw.cfg.RateLimit
	for _, rule := range rateRules {
		if rule.match(path, method) {
			limit, window := rule.limits(rl)
			return rule.bucket, limit, window
		}
	}
	return "general", rl.GeneralLimit, rl.GeneralWindow
}

// clientIP reads the peer address. chi's RealIP middleware has already
// replaced it with the forwarded address when running behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// normalizeEndpoint groups dynamic routes so every id does not get its own
// counter, e.g. /admin/products/<uuid> -> /admin/products/:id
func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	for i, p := range parts {
		if _, err := uuid.Parse(p); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func rateLimitExempt(path string) bool {
	return path == "/" || strings.HasPrefix(path, "/health/") || path == "/metrics" ||
		strings.HasPrefix(path, "/ws/") || strings.HasPrefix(path, "/webhooks/")
}

// RateLimitMiddleware applies fixed window limits per client, bucket and
// endpoint. When the counter store is unavailable requests are let through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || rateLimitExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			bucket, limit, window := mw.limitFor(r.URL.Path, r.Method)
			endpoint := bucket + ":" + normalizeEndpoint(r.URL.Path)

			count, err := mw.limiter.IncrementRateLimit(ip, endpoint, window)
			if err != nil {
				mw.logger.Warn("Rate limit store unavailable, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", ip),
					gecho.Field("endpoint", endpoint),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-count)))

			if count > limit {
				retryAfter := int(window.Seconds())
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", ip),
					gecho.Field("endpoint", endpoint),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Too many requests, please try again later"),
					gecho.WithData(map[string]any{"limit": limit, "retry_after": retryAfter}),
					gecho.Send(),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
