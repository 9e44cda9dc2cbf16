// Package session owns the persisted bearer credential and the in-memory
// user profile. The token is the only durable client state; everything
// else is rebuilt from the API on startup.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

const stateFile = "session.json"

// State is the on-disk shape of the saved session.
type State struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// Manager is the single writer of the credential. The login path sets it,
// and only Logout or an invalidation (the gateway's global 401 policy)
// clears it. Interested views subscribe instead of the gateway forcing
// navigation itself.
type Manager struct {
	mu           sync.Mutex
	path         string
	token        string
	user         *model.User
	onInvalidate []func()
	notified     bool
}

// New loads any saved session state from dataDir. A missing or unreadable
// state file simply yields a logged-out manager.
func New(dataDir string) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	m := &Manager{path: filepath.Join(dataDir, stateFile)}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read saved session", "path", m.path, "error", err)
		}

		return m, nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		slog.Warn("discarding corrupt session state", "path", m.path, "error", err)
		return m, nil
	}

	m.token = st.Token

	return m, nil
}

// Token returns the current bearer credential, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token
}

// Authenticated reports whether a credential is present. It says nothing
// about whether the server still honors it.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// User returns the in-memory profile, or nil before rehydration.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.user
}

// SetUser stores the profile fetched from /profile during rehydration.
func (m *Manager) SetUser(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.user = u
}

// Login persists the credential and stores the profile.
func (m *Manager) Login(token string, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := State{Token: token, SavedAt: time.Now()}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("saving session state: %w", err)
	}

	m.token = token
	m.user = user
	m.notified = false

	return nil
}

// Logout clears the credential and removes the state file.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearLocked()

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session state: %w", err)
	}

	return nil
}

// OnInvalidate registers fn to run when the session is invalidated by an
// unauthorized response. Callbacks fire at most once per login.
func (m *Manager) OnInvalidate(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onInvalidate = append(m.onInvalidate, fn)
}

// Invalidate discards the credential and notifies subscribers. Repeated
// calls (several in-flight requests all coming back 401) notify only once.
func (m *Manager) Invalidate() {
	m.mu.Lock()

	m.clearLocked()

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove session state", "path", m.path, "error", err)
	}

	if m.notified {
		m.mu.Unlock()
		return
	}

	m.notified = true
	callbacks := make([]func(), len(m.onInvalidate))
	copy(callbacks, m.onInvalidate)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (m *Manager) clearLocked() {
	m.token = ""
	m.user = nil
}
