// Package auth provides session-cookie authentication over the account
// store: login, registration and logout handlers plus the middleware that
// guards the favorites endpoints.
package auth

import (
	"errors"
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "session_id"

// ErrNoCookie is returned when the session cookie is absent.
var ErrNoCookie = errors.New("session cookie not found")

// CookieConfig holds the security attributes of the session cookie.
type CookieConfig struct {
	// MaxAge is the cookie lifetime in seconds.
	MaxAge int

	// Secure restricts the cookie to HTTPS. Off by default for local
	// deployments behind no TLS terminator.
	Secure bool

	SameSite http.SameSite
}

// DefaultCookieConfig returns the secure defaults: HttpOnly is always set,
// SameSite strict, 24 hour lifetime.
func DefaultCookieConfig(ttl time.Duration) CookieConfig {
	return CookieConfig{
		MaxAge:   int(ttl.Seconds()),
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// NewSessionCookie builds the cookie carrying a session ID.
func NewSessionCookie(sessionID string, cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}
}

// ClearSessionCookie builds the cookie that deletes the session cookie.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ParseSessionCookie extracts the session ID from the request.
func ParseSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", ErrNoCookie
	}
	return cookie.Value, nil
}
