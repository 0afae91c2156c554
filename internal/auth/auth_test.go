package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/repositories"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGateway(t *testing.T, config Config) (*Gateway, *repositories.UserRepository, *MemorySessionStore) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = shared.RunMigrations(db)
	require.NoError(t, err)

	users := repositories.NewUserRepository(db)
	sessions := NewMemorySessionStore()
	return NewGateway(users, sessions, config, nil), users, sessions
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := NewSession("user-1", 0)

		require.NoError(t, store.Create(ctx, session))

		got, err := store.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)

		got.UserID = "tampered"
		again, err := store.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", again.UserID)
	})

	t.Run("Expired Sessions Are Not Returned", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := NewSession("user-1", time.Hour)
		session.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Create(ctx, session))

		_, err := store.Get(ctx, session.ID)
		assert.ErrorIs(t, err, shared.ErrSessionNotFound)

		removed, err := store.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		n, _ := store.Count(ctx)
		assert.Equal(t, 0, n)
	})

	t.Run("Zero TTL Never Expires", func(t *testing.T) {
		session := NewSession("user-1", 0)
		assert.True(t, session.ExpiresAt.IsZero())
		assert.False(t, session.IsExpired())
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := NewSession("user-1", 0)
		require.NoError(t, store.Create(ctx, session))

		assert.NoError(t, store.Delete(ctx, session.ID))
		assert.NoError(t, store.Delete(ctx, session.ID))

		_, err := store.Get(ctx, session.ID)
		assert.ErrorIs(t, err, shared.ErrSessionNotFound)
	})

	t.Run("Cleanup Routine Stops With Context", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := NewSession("user-1", time.Hour)
		session.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Create(ctx, session))

		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		store.StartCleanupRoutine(cctx, 5*time.Millisecond)

		assert.Eventually(t, func() bool {
			n, _ := store.Count(ctx)
			return n == 0
		}, time.Second, 10*time.Millisecond)
	})
}

func TestGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		gw, users, sessions := setupGateway(t, DefaultConfig())
		created, err := users.Create(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)

		user, session, err := gw.Login(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, created.ID, session.UserID)

		stored, err := sessions.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, stored.UserID)
	})

	t.Run("Login Failures Are Indistinguishable", func(t *testing.T) {
		gw, users, sessions := setupGateway(t, DefaultConfig())
		_, err := users.Create(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)

		_, _, wrongPassword := gw.Login(ctx, "fan@example.com", "wrong")
		_, _, unknownEmail := gw.Login(ctx, "nobody@example.com", "hunter2")

		assert.ErrorIs(t, wrongPassword, shared.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

		n, _ := sessions.Count(ctx)
		assert.Equal(t, 0, n)
	})

	t.Run("Logout", func(t *testing.T) {
		gw, users, sessions := setupGateway(t, DefaultConfig())
		_, err := users.Create(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)

		_, session, err := gw.Login(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)

		require.NoError(t, gw.Logout(ctx, session.ID))
		require.NoError(t, gw.Logout(ctx, session.ID))
		require.NoError(t, gw.Logout(ctx, ""))

		_, err = sessions.Get(ctx, session.ID)
		assert.ErrorIs(t, err, shared.ErrSessionNotFound)
	})
}

func TestGatewayMiddleware(t *testing.T) {
	ctx := context.Background()

	protected := func(gw *Gateway) http.Handler {
		return gw.Authenticate(gw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			w.Write([]byte(user.Email))
		})))
	}

	t.Run("Anonymous Is Rejected Before Handler", func(t *testing.T) {
		gw, _, _ := setupGateway(t, DefaultConfig())
		called := false
		h := gw.Authenticate(gw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscribe", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
		assert.False(t, called)
	})

	t.Run("Session Cookie Resolves User", func(t *testing.T) {
		gw, users, _ := setupGateway(t, DefaultConfig())
		_, err := users.Create(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)
		_, session, err := gw.Login(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)

		login := httptest.NewRecorder()
		gw.SetSessionCookie(login, session)
		cookies := login.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sid", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		protected(gw).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "fan@example.com", rec.Body.String())
	})

	t.Run("Unknown Session Is Anonymous", func(t *testing.T) {
		gw, _, _ := setupGateway(t, DefaultConfig())

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
		rec := httptest.NewRecorder()
		protected(gw).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Session After Logout Is Anonymous", func(t *testing.T) {
		gw, users, _ := setupGateway(t, DefaultConfig())
		_, err := users.Create(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)
		_, session, err := gw.Login(ctx, "fan@example.com", "hunter2")
		require.NoError(t, err)
		require.NoError(t, gw.Logout(ctx, session.ID))

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: session.ID})
		rec := httptest.NewRecorder()
		protected(gw).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Session For Missing User Is Dropped", func(t *testing.T) {
		gw, _, sessions := setupGateway(t, DefaultConfig())
		session := NewSession("deleted-user", 0)
		require.NoError(t, sessions.Create(ctx, session))

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: session.ID})
		rec := httptest.NewRecorder()
		protected(gw).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		_, err := sessions.Get(ctx, session.ID)
		assert.ErrorIs(t, err, shared.ErrSessionNotFound)
	})

	t.Run("Clear Cookie Expires It", func(t *testing.T) {
		gw, _, _ := setupGateway(t, Config{CookieName: "custom", SessionTTL: time.Hour})
		rec := httptest.NewRecorder()
		gw.ClearSessionCookie(rec)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "custom", cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0)
	})
}

func TestConfigFromShared(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := ConfigFromShared(shared.AuthConfig{SessionTTL: "0"})
		require.NoError(t, err)
		assert.Equal(t, "sid", cfg.CookieName)
		assert.Zero(t, cfg.SessionTTL)
	})

	t.Run("Overrides", func(t *testing.T) {
		cfg, err := ConfigFromShared(shared.AuthConfig{CookieName: "s", CookieSecure: true, SessionTTL: "24h"})
		require.NoError(t, err)
		assert.Equal(t, Config{CookieName: "s", CookieSecure: true, SessionTTL: 24 * time.Hour}, cfg)
	})

	t.Run("Invalid TTL", func(t *testing.T) {
		_, err := ConfigFromShared(shared.AuthConfig{SessionTTL: "forever"})
		assert.True(t, errors.Is(err, shared.ErrInvalidConfig))
	})
}

func TestUserFromContext(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))

	user := &models.User{ID: "u1"}
	assert.Equal(t, user, UserFromContext(WithUser(context.Background(), user)))
}
