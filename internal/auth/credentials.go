package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"venuecatalog/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// users file layout:
//
//	users:
//	  - id: 1
//	    username: alice
//	    email: alice@example.com
//	    password_hash: $2a$10$...
//	    active: true
type usersFile struct {
	Users []userRecord `yaml:"users"`
}

type userRecord struct {
	ID           int64     `yaml:"id"`
	Username     string    `yaml:"username"`
	Email        string    `yaml:"email"`
	PasswordHash string    `yaml:"password_hash"`
	Active       *bool     `yaml:"active"`
	CreatedAt    time.Time `yaml:"created_at"`
}

type credential struct {
	principal models.Principal
	hash      []byte
}

// Credentials is the fixed allow-list of principals that may log in.
type Credentials struct {
	byUsername map[string]credential
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// LoadCredentials reads a YAML users file. An empty path yields an empty allow-list.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		return &Credentials{byUsername: map[string]credential{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	return ParseCredentials(data)
}

// ParseCredentials decodes and validates a YAML users document.
func ParseCredentials(data []byte) (*Credentials, error) {
	var file usersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}

	creds := &Credentials{byUsername: make(map[string]credential, len(file.Users))}
	seenIDs := make(map[int64]struct{}, len(file.Users))
	for i, rec := range file.Users {
		username := strings.TrimSpace(rec.Username)
		if username == "" {
			return nil, fmt.Errorf("users[%d]: username is required", i)
		}
		if _, dup := creds.byUsername[username]; dup {
			return nil, fmt.Errorf("users[%d]: duplicate username %q", i, username)
		}
		if _, dup := seenIDs[rec.ID]; dup {
			return nil, fmt.Errorf("users[%d]: duplicate id %d", i, rec.ID)
		}
		if _, err := bcrypt.Cost([]byte(rec.PasswordHash)); err != nil {
			return nil, fmt.Errorf("users[%d]: password_hash is not a bcrypt hash: %w", i, err)
		}
		active := true
		if rec.Active != nil {
			active = *rec.Active
		}
		seenIDs[rec.ID] = struct{}{}
		creds.byUsername[username] = credential{
			principal: models.Principal{
				ID:        rec.ID,
				Username:  username,
				Email:     rec.Email,
				IsActive:  active,
				CreatedAt: rec.CreatedAt,
			},
			hash: []byte(rec.PasswordHash),
		}
	}
	return creds, nil
}

// Len reports how many principals are configured.
func (c *Credentials) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byUsername)
}

// Lookup returns the principal registered under username.
func (c *Credentials) Lookup(username string) (models.Principal, bool) {
	if c == nil {
		return models.Principal{}, false
	}
	cred, ok := c.byUsername[username]
	return cred.principal, ok
}

// Authenticate checks a username/password pair. Unknown usernames still pay for a
// bcrypt comparison so both failure paths take similar time.
func (c *Credentials) Authenticate(username, password string) (models.Principal, error) {
	var cred credential
	ok := false
	if c != nil {
		cred, ok = c.byUsername[username]
	}
	if !ok {
		_ = bcrypt.CompareHashAndPassword(fallbackHash(), []byte(password))
		return models.Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return models.Principal{}, ErrInvalidCredentials
	}
	if !cred.principal.IsActive {
		return models.Principal{}, ErrAccountDisabled
	}
	return cred.principal, nil
}

// HashPassword produces a bcrypt hash suitable for the users file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func fallbackHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}
