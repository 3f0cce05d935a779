package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"promptwizard/store"
)

// credentialsRequest is the body of the login and register endpoints.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Username string `json:"username"`
}

// LoginHandler serves POST /api/login. Failed attempts count against the
// per-IP rate limit; a success resets it.
func (m *Middleware) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		ip := remoteIP(r, m.trustProxy)
		if !m.checkRateLimit(w, ip) {
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		ok, err := m.accounts.Verify(r.Context(), req.Username, req.Password)
		if err != nil {
			m.logger.Error("credential verification failed", zap.Error(err))
			writeJSONError(w, http.StatusBadGateway, "account store unavailable")
			return
		}
		if !ok {
			m.limiter.RecordFailure(ip)
			m.logger.Info("failed login attempt",
				zap.String("username", req.Username),
				zap.String("ip", ip),
			)
			writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		m.limiter.Reset(ip)
		if err := m.startSession(w, req.Username); err != nil {
			m.logger.Error("session creation failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "could not create session")
			return
		}
		writeJSONBody(w, http.StatusOK, sessionResponse{Username: req.Username})
	}
}

// RegisterHandler serves POST /api/register. A successful registration
// logs the new account in immediately.
func (m *Middleware) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		err := m.accounts.Register(r.Context(), req.Username, req.Password)
		switch {
		case errors.Is(err, store.ErrUserExists):
			writeJSONError(w, http.StatusConflict, "username already taken")
			return
		case errors.Is(err, store.ErrInvalidUsername):
			writeJSONError(w, http.StatusBadRequest, "username must be 3-20 characters: letters, digits, - or _")
			return
		case errors.Is(err, store.ErrEmptyPassword):
			writeJSONError(w, http.StatusBadRequest, "password cannot be empty")
			return
		case err != nil:
			m.logger.Error("registration failed", zap.Error(err))
			writeJSONError(w, http.StatusBadGateway, "account store unavailable")
			return
		}

		m.logger.Info("account registered", zap.String("username", req.Username))
		if err := m.startSession(w, req.Username); err != nil {
			m.logger.Error("session creation failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "could not create session")
			return
		}
		writeJSONBody(w, http.StatusCreated, sessionResponse{Username: req.Username})
	}
}

// LogoutHandler serves POST /api/logout. Idempotent.
func (m *Middleware) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		if sessionID, err := ParseSessionCookie(r); err == nil {
			m.sessions.Delete(sessionID)
		}
		http.SetCookie(w, ClearSessionCookie())
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSONBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSONBody(w, status, map[string]string{"error": message})
}

// remoteIP resolves the client address used as the rate-limit key. Proxy
// headers are client-controlled, so they are honored only when the
// deployment declares a trusted proxy in front of the server; otherwise a
// direct client could rotate spoofed X-Forwarded-For values to dodge the
// limiter.
func remoteIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if i := strings.IndexByte(xff, ','); i >= 0 {
				return strings.TrimSpace(xff[:i])
			}
			return strings.TrimSpace(xff)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
