package prefs

import (
	"fmt"
	"sync"

	"github.com/imobly/go-core/storage"
)

// Theme values persisted under storage.KeyTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Manager holds the UI preference that survives restarts. It is deliberately
// tiny: the theme key is the only preference either app persists.
type Manager struct {
	mu    sync.Mutex
	store storage.Store
	theme string
}

// NewManager restores the persisted theme, defaulting to light.
func NewManager(store storage.Store) *Manager {
	m := &Manager{store: store, theme: ThemeLight}
	if v, ok, err := store.Get(storage.KeyTheme); err == nil && ok {
		if v == ThemeDark {
			m.theme = ThemeDark
		}
	}
	return m
}

func (m *Manager) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func (m *Manager) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(storage.KeyTheme, theme); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	m.theme = theme
	return nil
}

// Toggle flips between light and dark and returns the new value.
func (m *Manager) Toggle() (string, error) {
	m.mu.Lock()
	next := ThemeDark
	if m.theme == ThemeDark {
		next = ThemeLight
	}
	m.mu.Unlock()

	if err := m.SetTheme(next); err != nil {
		return "", err
	}
	return next, nil
}
