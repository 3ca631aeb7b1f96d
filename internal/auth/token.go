package auth

import (
	"net/http"
	"strings"
)

const (
	AccessTokenCookie = "access_token"
	SessionCookie     = "cart_session"
	SessionHeader     = "X-Session-ID"
)

func ExtractAccessToken(r *http.Request) string {
	// cookie first
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	// then bearer header
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// ExtractSessionID reads the anonymous cart session from header or cookie.
func ExtractSessionID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(SessionHeader)); v != "" {
		return v
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
