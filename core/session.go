package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// DefaultSessionTTL is the session lifetime used when no custom duration
// is configured.
const DefaultSessionTTL = 24 * time.Hour

// sessionIDBytes is the entropy of a session identifier. 32 bytes gives
// 256 bits.
const sessionIDBytes = 32

// Session is an authenticated login session, stored server-side and keyed
// by its random ID.
type Session struct {
	// ID is the opaque token placed in the session cookie.
	ID string

	// Username is the account this session belongs to.
	Username string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a session for a user with the given lifetime.
// A zero ttl falls back to DefaultSessionTTL; a negative ttl yields a
// session that is already expired.
func NewSession(id, username string, ttl time.Duration) Session {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	now := time.Now()
	return Session{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has passed its expiry.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// GenerateSessionID returns a cryptographically random, URL-safe session
// identifier.
func GenerateSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(bytes), nil
}
