package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/metrics"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/goccy/go-json"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserStore is the account lookup the gateway authenticates against.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(user *models.User, candidate string) bool
}

// Config holds session cookie settings.
type Config struct {
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration // 0 issues a browser-session cookie and a non-expiring session
}

// DefaultConfig returns the cookie settings used when none are configured.
func DefaultConfig() Config {
	return Config{CookieName: "sid"}
}

// ConfigFromShared converts the [auth] section of the application config.
func ConfigFromShared(c shared.AuthConfig) (Config, error) {
	ttl, err := c.SessionDuration()
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if c.CookieName != "" {
		cfg.CookieName = c.CookieName
	}
	cfg.CookieSecure = c.CookieSecure
	cfg.SessionTTL = ttl
	return cfg, nil
}

// Gateway verifies credentials, manages sessions and resolves the current user per request.
type Gateway struct {
	users    UserStore
	sessions SessionStore
	config   Config
	logger   *log.Logger
}

// NewGateway creates a new [Gateway].
func NewGateway(users UserStore, sessions SessionStore, config Config, logger *log.Logger) *Gateway {
	if config.CookieName == "" {
		config.CookieName = DefaultConfig().CookieName
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gateway{
		users:    users,
		sessions: sessions,
		config:   config,
		logger:   logger,
	}
}

// Login verifies email and password and opens a session for the user.
//
// An unknown email and a wrong password both yield [shared.ErrInvalidCredentials].
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.User, *Session, error) {
	user, err := g.users.GetByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		metrics.RecordLogin("invalid_credentials")
		return nil, nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		metrics.RecordLogin("error")
		return nil, nil, err
	}

	if !g.users.VerifyPassword(user, password) {
		metrics.RecordLogin("invalid_credentials")
		return nil, nil, shared.ErrInvalidCredentials
	}

	session := NewSession(user.ID, g.config.SessionTTL)
	if err := g.sessions.Create(ctx, session); err != nil {
		metrics.RecordLogin("error")
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.RecordLogin("success")
	g.reportSessions(ctx)
	return user, session, nil
}

// Logout ends the session. Unknown or empty ids are ignored.
func (g *Gateway) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := g.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	g.reportSessions(ctx)
	return nil
}

// Authenticate resolves the session cookie to a user and stores it in the request context.
// Requests without a live session continue anonymously; use [Gateway.RequireAuth] for protected routes.
func (g *Gateway) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := g.SessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := g.sessions.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, shared.ErrSessionNotFound) {
				g.logger.Error("session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		user, err := g.users.Get(r.Context(), session.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				g.sessions.Delete(r.Context(), sessionID)
			} else {
				g.logger.Error("session user lookup failed", "user_id", session.UserID, "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAuth rejects requests without an authenticated user with 401 before next runs.
// It must be mounted behind [Gateway.Authenticate].
func (g *Gateway) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionID extracts the session id from the request cookie.
func (g *Gateway) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(g.config.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func (g *Gateway) SetSessionCookie(w http.ResponseWriter, session *Session) {
	cookie := &http.Cookie{
		Name:     g.config.CookieName,
		Value:    session.ID,
		Path:     "/",
		Secure:   g.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if g.config.SessionTTL > 0 {
		cookie.MaxAge = int(g.config.SessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie clears the session cookie.
func (g *Gateway) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   g.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *Gateway) reportSessions(ctx context.Context) {
	if n, err := g.sessions.Count(ctx); err == nil {
		metrics.SetActiveSessions(n)
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}
