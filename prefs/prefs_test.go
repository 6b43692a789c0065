package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobly/go-core/storage"
)

func TestThemeDefaultsToLight(t *testing.T) {
	m := NewManager(storage.NewMemStore())
	assert.Equal(t, ThemeLight, m.Theme())
}

func TestThemeTogglePersistsAcrossManagers(t *testing.T) {
	store := storage.NewMemStore()

	m := NewManager(store)
	next, err := m.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, next)

	// A new manager over the same store is a restart.
	m2 := NewManager(store)
	assert.Equal(t, ThemeDark, m2.Theme())

	next, err = m2.Toggle()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	m := NewManager(storage.NewMemStore())
	assert.Error(t, m.SetTheme("sepia"))
	assert.Equal(t, ThemeLight, m.Theme())
}
