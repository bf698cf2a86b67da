package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func stubBackground(t *testing.T, dark bool) {
	t.Helper()
	orig := DetectDarkBackground
	DetectDarkBackground = func() bool { return dark }
	t.Cleanup(func() { DetectDarkBackground = orig })
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	stubBackground(t, true)

	s, err := Load(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	assert.True(t, s.DarkMode(), "dark mode should follow the terminal background")
	assert.False(t, s.CommandFullscreen())
}

func TestLoad_MissingFileOnLightTerminal(t *testing.T) {
	stubBackground(t, false)

	s, err := Load(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)
	assert.False(t, s.DarkMode(), "an unsaved theme follows a light terminal, not a fixed dark default")
}

func TestLoad_PartialFileFallsBackForUnsetKeys(t *testing.T) {
	stubBackground(t, false)

	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commandModalFullscreen: true\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.False(t, s.DarkMode())
	assert.True(t, s.CommandFullscreen())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("darkMode: [not a bool"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPrefs))
}

func TestSaveOnChange(t *testing.T) {
	stubBackground(t, true)

	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.SetDarkMode(false))
	v, err := s.ToggleCommandFullscreen()
	require.NoError(t, err)
	assert.True(t, v)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]bool
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Equal(t, map[string]bool{KeyDarkMode: false, KeyCommandFullscreen: true}, onDisk)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, reloaded.DarkMode())
	assert.True(t, reloaded.CommandFullscreen())
}

func TestToggleDarkMode(t *testing.T) {
	s := InMemory(true, false)

	v, err := s.ToggleDarkMode()
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, s.DarkMode())

	v, err = s.ToggleDarkMode()
	require.NoError(t, err)
	assert.True(t, v)
}

func TestInMemory_NeverWrites(t *testing.T) {
	s := InMemory(false, false)
	assert.Empty(t, s.Path())
	assert.NoError(t, s.SetCommandFullscreen(true))
	assert.True(t, s.CommandFullscreen())
}
