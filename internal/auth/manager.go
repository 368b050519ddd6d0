package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venuecatalog/backend/internal/models"
)

var (
	ErrInvalidSession       = errors.New("invalid or expired session")
	ErrPrincipalUnavailable = errors.New("user account not found or disabled")
)

// Manager issues, verifies and revokes login sessions.
type Manager struct {
	creds  *Credentials
	store  SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type LoginResult struct {
	Principal models.Principal
	Token     string
	Session   Session
}

func NewManager(creds *Credentials, store SessionStore, secret string, ttl time.Duration) *Manager {
	return &Manager{
		creds:  creds,
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Enabled reports whether any principal can log in.
func (m *Manager) Enabled() bool {
	return m != nil && m.creds.Len() > 0
}

func (m *Manager) Login(ctx context.Context, username, password string) (LoginResult, error) {
	principal, err := m.creds.Authenticate(username, password)
	if err != nil {
		return LoginResult{}, err
	}

	id, err := newSessionID()
	if err != nil {
		return LoginResult{}, fmt.Errorf("session id: %w", err)
	}
	now := m.now()
	session := Session{
		ID:        id,
		UserID:    principal.ID,
		Username:  principal.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	token, err := SignSessionToken(m.secret, session)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign session: %w", err)
	}
	if err := m.store.Create(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("store session: %w", err)
	}
	return LoginResult{Principal: principal, Token: token, Session: session}, nil
}

// Verify resolves a token to its live session and principal. Sessions whose principal
// disappeared from the allow-list or was disabled are revoked.
func (m *Manager) Verify(ctx context.Context, token string) (models.Principal, Session, error) {
	id, err := ParseSessionToken(m.secret, token, m.now(), false)
	if errors.Is(err, ErrSessionExpired) {
		if expiredID, perr := ParseSessionToken(m.secret, token, m.now(), true); perr == nil {
			_ = m.store.Delete(ctx, expiredID)
		}
		return models.Principal{}, Session{}, ErrSessionExpired
	}
	if err != nil {
		return models.Principal{}, Session{}, ErrInvalidSession
	}

	session, err := m.store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrSessionExpired):
		return models.Principal{}, Session{}, ErrSessionExpired
	case errors.Is(err, ErrSessionNotFound):
		return models.Principal{}, Session{}, ErrInvalidSession
	case err != nil:
		return models.Principal{}, Session{}, err
	}

	principal, ok := m.creds.Lookup(session.Username)
	if !ok || !principal.IsActive {
		_ = m.store.Delete(ctx, session.ID)
		return models.Principal{}, Session{}, ErrPrincipalUnavailable
	}
	return principal, session, nil
}

// Logout revokes the session behind token. Expired tokens may still log out.
func (m *Manager) Logout(ctx context.Context, token string) error {
	id, err := ParseSessionToken(m.secret, token, m.now(), true)
	if err != nil {
		return ErrInvalidSession
	}
	if err := m.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrInvalidSession
		}
		return err
	}
	return nil
}

// VerifyPrincipal resolves token like Verify but never revokes anything.
func (m *Manager) VerifyPrincipal(ctx context.Context, token string) (models.Principal, error) {
	id, err := ParseSessionToken(m.secret, token, m.now(), false)
	if err != nil {
		return models.Principal{}, ErrInvalidSession
	}
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return models.Principal{}, ErrInvalidSession
	}
	principal, ok := m.creds.Lookup(session.Username)
	if !ok || !principal.IsActive {
		return models.Principal{}, ErrPrincipalUnavailable
	}
	return principal, nil
}
