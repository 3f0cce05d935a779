package auth

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"promptwizard/webui"
)

// Rate limiting defaults for the login endpoint.
const (
	DefaultMaxLoginAttempts = 5
	DefaultAttemptWindow    = time.Minute
	DefaultBlockDuration    = 5 * time.Minute
)

// Accounts is the credential backend. Implemented by store.AccountStore.
type Accounts interface {
	Register(ctx context.Context, username, password string) error
	Verify(ctx context.Context, username, password string) (bool, error)
}

// Middleware authenticates requests against the in-memory session store
// and serves the login, register and logout endpoints. It satisfies
// webui.AuthProvider.
type Middleware struct {
	accounts   Accounts
	sessions   *webui.SessionStore
	limiter    *webui.RateLimiter
	logger     *zap.Logger
	cookieCfg  CookieConfig
	trustProxy bool
}

// Config for the auth middleware.
type Config struct {
	SessionTTL       time.Duration
	MaxLoginAttempts int
	AttemptWindow    time.Duration
	BlockDuration    time.Duration
	SecureCookies    bool

	// TrustProxyHeaders enables X-Forwarded-For / X-Real-IP resolution for
	// the login rate limiter. Set only when a trusted reverse proxy sits in
	// front of the server; the headers are spoofable otherwise.
	TrustProxyHeaders bool
}

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() Config {
	return Config{
		SessionTTL:       24 * time.Hour,
		MaxLoginAttempts: DefaultMaxLoginAttempts,
		AttemptWindow:    DefaultAttemptWindow,
		BlockDuration:    DefaultBlockDuration,
	}
}

// NewMiddleware wires the account backend to a fresh session store and
// login rate limiter.
func NewMiddleware(accounts Accounts, cfg Config, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = DefaultAttemptWindow
	}
	if cfg.BlockDuration <= 0 {
		cfg.BlockDuration = DefaultBlockDuration
	}

	cookieCfg := DefaultCookieConfig(cfg.SessionTTL)
	cookieCfg.Secure = cfg.SecureCookies

	return &Middleware{
		accounts:   accounts,
		sessions:   webui.NewSessionStore(cfg.SessionTTL),
		limiter:    webui.NewRateLimiter(cfg.MaxLoginAttempts, cfg.AttemptWindow, cfg.BlockDuration),
		logger:     logger,
		cookieCfg:  cookieCfg,
		trustProxy: cfg.TrustProxyHeaders,
	}
}

// Middleware rejects requests without a valid session and injects the
// username into the request context.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := ParseSessionCookie(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		session, err := m.sessions.Get(sessionID)
		if err != nil {
			m.logger.Debug("invalid session",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := webui.WithUsername(r.Context(), session.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Sessions exposes the session store so the application can start its
// cleanup ticker.
func (m *Middleware) Sessions() *webui.SessionStore {
	return m.sessions
}

// checkRateLimit writes a 429 and reports false when the IP is blocked.
func (m *Middleware) checkRateLimit(w http.ResponseWriter, ip string) bool {
	allowed, remaining := m.limiter.Allow(ip)
	if !allowed {
		m.logger.Warn("login rate limit exceeded",
			zap.String("ip", ip),
			zap.Duration("remaining", remaining),
		)
		seconds := int(remaining.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return false
	}
	return true
}

// startSession creates a session for the user and sets its cookie.
func (m *Middleware) startSession(w http.ResponseWriter, username string) error {
	session, err := m.sessions.Create(username)
	if err != nil {
		return err
	}
	http.SetCookie(w, NewSessionCookie(session.ID, m.cookieCfg))
	m.logger.Info("session created",
		zap.String("username", username),
		zap.Time("expires_at", session.ExpiresAt),
	)
	return nil
}
