package session

import (
	"net/http"
	"time"
)

const CookieName = "X-Session-Token"

// SessionCookie builds the session cookie with shared attributes.
func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// DefaultExpiry is the lifetime of a freshly issued session.
func DefaultExpiry() time.Time {
	return time.Now().Add(12 * time.Hour)
}
