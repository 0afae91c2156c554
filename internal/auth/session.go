package auth

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/showtrack/internal/shared"
)

// Session binds a random identifier to a user id. It holds nothing else about the user.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time // zero means the session lives until logout
}

// NewSession creates a session for userID. A ttl of 0 never expires.
func NewSession(userID string, ttl time.Duration) *Session {
	now := time.Now()
	session := &Session{
		ID:        shared.GenerateID(),
		UserID:    userID,
		CreatedAt: now,
	}
	if ttl > 0 {
		session.ExpiresAt = now.Add(ttl)
	}
	return session
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// SessionStore defines the interface for session storage backends.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a live session by ID.
	// Returns [shared.ErrSessionNotFound] if missing or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by ID.
	// Does not return error if session doesn't exist.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes all expired sessions and returns how many were removed.
	CleanupExpired(ctx context.Context) (int, error)

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)
}

// MemorySessionStore is an in-memory implementation of [SessionStore].
//
// Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
	}
}

// Create stores a copy of session.
func (s *MemorySessionStore) Create(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

// Get retrieves a copy of the session by ID.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.IsExpired() {
		return nil, shared.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session by ID.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// CleanupExpired removes all expired sessions.
func (s *MemorySessionStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored sessions, expired ones included until cleanup.
func (s *MemorySessionStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions), nil
}

// StartCleanupRoutine removes expired sessions every interval until ctx is done.
func (s *MemorySessionStore) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}
