package lib

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
)

const csrfTokenBytes = 32

// GenerateCSRFToken returns a random URL-safe token for the double-submit cookie.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidCSRF implements the double-submit check: the header must echo the cookie.
func ValidCSRF(r *http.Request) bool {
	cookie, err := GetCookieValue(CSRFCookieName, r)
	if err != nil || cookie == "" {
		return false
	}
	header := r.Header.Get(CSRFHeaderName)
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) == 1
}
