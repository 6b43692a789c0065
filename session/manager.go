package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/imobly/go-core/models"
	"github.com/imobly/go-core/storage"
	"github.com/imobly/go-core/utils"
)

// Listener is notified whenever the authenticated state flips. Dependent
// views use it to route back to the login screen. It runs outside the
// manager's lock, after both durable storage and memory reflect the change.
type Listener func(authenticated bool)

// Manager holds the process-wide session: one bearer token, the identity it
// represents, and nothing else. Exactly one Manager exists per process.
type Manager struct {
	mu        sync.Mutex
	store     storage.Store
	token     string
	identity  *models.Identity
	listeners map[int]Listener
	nextID    int
}

func NewManager(store storage.Store) *Manager {
	return &Manager{
		store:     store,
		listeners: make(map[int]Listener),
	}
}

// Login persists the token and marks the process authenticated. The durable
// write completes before any listener observes the new state.
func (m *Manager) Login(token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}

	m.mu.Lock()
	if err := m.store.Set(storage.KeyToken, token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist token: %w", err)
	}
	m.token = token
	m.identity = parseIdentity(token)
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	utils.Logger.Info("Session established")
	notify(listeners, true)
	return nil
}

// Logout clears the token from durable storage and memory. Idempotent:
// calling it while already logged out does nothing and notifies nobody.
func (m *Manager) Logout() error {
	return m.clear("User logged out")
}

// Invalidate is the forced-logout path taken when the backend answers 401.
// Multiple in-flight requests can all hit it; only the first transition
// clears state and fires listeners.
func (m *Manager) Invalidate() {
	_ = m.clear("Session invalidated by backend")
}

func (m *Manager) clear(reason string) error {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return nil
	}
	if err := m.store.Delete(storage.KeyToken); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("clear token: %w", err)
	}
	m.token = ""
	m.identity = nil
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	utils.Logger.Info(reason)
	notify(listeners, false)
	return nil
}

// Restore reads any previously persisted token and, if present, treats the
// process as authenticated without contacting the backend. The token's
// validity is only discovered on the first API call.
func (m *Manager) Restore() error {
	m.mu.Lock()
	token, ok, err := m.store.Get(storage.KeyToken)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("restore token: %w", err)
	}
	if !ok || token == "" {
		m.mu.Unlock()
		return nil
	}
	m.token = token
	m.identity = parseIdentity(token)
	listeners := m.snapshotListenersLocked()
	m.mu.Unlock()

	utils.Logger.Info("Session restored from local storage")
	notify(listeners, true)
	return nil
}

// Token returns the current bearer token, if any.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	_, ok := m.Token()
	return ok
}

// Identity returns the identity parsed from the current token, or nil.
func (m *Manager) Identity() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	cp := *m.identity
	return &cp
}

// Subscribe registers a listener and returns its unsubscribe func.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) snapshotListenersLocked() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, authenticated bool) {
	for _, l := range listeners {
		l(authenticated)
	}
}

// parseIdentity extracts the subject and expiry from the token's claims
// without verifying the signature. The backend is the verifier; the client
// only needs something to display and to attach log context to.
func parseIdentity(token string) *models.Identity {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	ident := &models.Identity{}
	if sub, ok := claims["sub"].(string); ok {
		ident.Email = sub
	}
	if exp, ok := claims["exp"].(float64); ok {
		ident.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if ident.Email == "" && ident.ExpiresAt.IsZero() {
		return nil
	}
	return ident
}
