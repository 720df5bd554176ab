package lib

import (
	"net/http"
	"poolcare_server/config"
	"time"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
	CSRFCookieName    = "csrf_token"
	CSRFHeaderName    = "X-CSRF-Token"
)

// cookieBase returns the attributes shared by every cookie we set. In
// production the frontend and API live on sibling subdomains, so cookies
// have to be SameSite=None and scoped to the configured parent domain.
func cookieBase(name string) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	if config.IsProduction() {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
		c.Domain = config.GetConfig().Auth.CookieDomain
	}
	return c
}

// SetCookie sets a secure, HttpOnly cookie for authentication/session usage
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	cookie := cookieBase(key)
	cookie.Value = val
	cookie.Expires = expiry
	cookie.HttpOnly = true
	http.SetCookie(w, cookie)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	cookie := cookieBase(key)
	cookie.Expires = time.Now().Add(-time.Hour)
	cookie.MaxAge = -1
	cookie.HttpOnly = true
	http.SetCookie(w, cookie)
}

// SetCSRFCookie sets a CSRF token cookie that must be readable by JavaScript
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	cookie := cookieBase(CSRFCookieName)
	cookie.Value = val
	cookie.Expires = expiry
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	http.SetCookie(w, cookie)
}
