// Package session owns the signed-in user's credentials for the lifetime of
// a command: Open at start, Begin after login, Close on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"sicksense-cli/model"
)

const fileName = "session.json"

var (
	ErrNoSession = errors.New("not signed in")
	ErrExpired   = errors.New("session expired, sign in again")
)

type Session struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at,omitempty"`
}

// Expired reports whether the token is past its exp claim. Tokens without an
// exp claim never expire locally; the API still decides.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Manager persists one session in a directory.
type Manager struct {
	path  string
	clock clockwork.Clock

	mu      sync.RWMutex
	current *Session
}

func NewManager(dir string, clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{path: filepath.Join(dir, fileName), clock: clock}
}

// Open loads the persisted session. Expired sessions are discarded.
func (m *Manager) Open() (Session, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("invalid session file: %w", err)
	}
	if s.Token == "" {
		return Session{}, ErrNoSession
	}
	if s.Expired(m.clock.Now()) {
		_ = os.Remove(m.path)
		return Session{}, ErrExpired
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	return s, nil
}

// Begin starts a session from a login or signup response and persists it.
func (m *Manager) Begin(resp model.AuthResponse) (Session, error) {
	if resp.Token == "" {
		return Session{}, errors.New("auth response has no token")
	}
	s := Session{Token: resp.Token, User: resp.User}
	if exp, ok := tokenExpiry(resp.Token); ok {
		s.ExpiresAt = exp
	}
	if s.Expired(m.clock.Now()) {
		return Session{}, ErrExpired
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return Session{}, err
	}
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return Session{}, err
	}
	if err := os.WriteFile(m.path, payload, 0o600); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	return s, nil
}

// Close ends the session and removes it from disk.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Token implements service.TokenSource. It returns "" once the session expired.
func (m *Manager) Token() string {
	s, ok := m.Current()
	if !ok || s.Expired(m.clock.Now()) {
		return ""
	}
	return s.Token
}

// tokenExpiry reads the exp claim without verifying the signature; only the
// server holds the key.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
