package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session ties an opaque session id to a principal until ExpiresAt.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionStore is the session registry used by Manager.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	// Get returns ErrSessionNotFound for unknown ids and ErrSessionExpired for expired
	// ones; an expired session is removed as a side effect.
	Get(ctx context.Context, id string) (Session, error)
	// Delete returns ErrSessionNotFound when id is not registered.
	Delete(ctx context.Context, id string) error
	CleanupExpired(ctx context.Context) (int, error)
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(_ context.Context, session Session) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if session.ExpiredAt(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) CleanupExpired(_ context.Context) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.ExpiredAt(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of registered sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunJanitor sweeps expired sessions every interval until ctx is cancelled.
func RunJanitor(ctx context.Context, store SessionStore, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.CleanupExpired(ctx)
			if err != nil {
				logger.Error("session_cleanup", "status", "error", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("session_cleanup", "status", "success", "removed", removed)
			}
		}
	}
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
