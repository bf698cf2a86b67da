// Package prefs persists the two UI preferences pimanager remembers between
// runs: the dark theme and the fullscreen command view.
//
// A Settings value is loaded once at start and saved on every change. It is
// passed explicitly to the views that read it; there is no package-level
// instance.
//
// An unsaved darkMode follows the terminal background (termenv) rather than
// the web dashboard's fixed default of dark. Once toggled, the saved value
// wins.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"gopkg.in/yaml.v3"
)

// Persisted keys. They match the names the web dashboard used in local storage.
const (
	KeyDarkMode          = "darkMode"
	KeyCommandFullscreen = "commandModalFullscreen"
)

// file is the on-disk shape. Pointers distinguish "unset" from false so a
// missing darkMode can fall back to the terminal's background.
type file struct {
	DarkMode          *bool `yaml:"darkMode,omitempty"`
	CommandFullscreen *bool `yaml:"commandModalFullscreen,omitempty"`
}

// Settings holds the persisted preferences. Writes are last-write-wins.
type Settings struct {
	mu   sync.Mutex
	path string

	darkMode          bool
	commandFullscreen bool
}

// DetectDarkBackground reports whether the terminal background is dark.
// Replaced in tests.
var DetectDarkBackground = termenv.HasDarkBackground

// Load reads preferences from path. A missing file yields the defaults:
// dark mode follows the terminal background, fullscreen is off.
func Load(path string) (*Settings, error) {
	s := &Settings{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.darkMode = DetectDarkBackground()
			return s, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrPrefs,
			"Failed to read preferences",
			"Check permissions on "+path)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPrefs,
			"Preferences file is corrupt",
			"Delete "+path+" to reset preferences")
	}

	if f.DarkMode != nil {
		s.darkMode = *f.DarkMode
	} else {
		s.darkMode = DetectDarkBackground()
	}
	if f.CommandFullscreen != nil {
		s.commandFullscreen = *f.CommandFullscreen
	}

	return s, nil
}

// InMemory returns settings that are never written to disk.
func InMemory(darkMode, commandFullscreen bool) *Settings {
	return &Settings{darkMode: darkMode, commandFullscreen: commandFullscreen}
}

// Path returns the backing file, or "" for in-memory settings.
func (s *Settings) Path() string {
	return s.path
}

// DarkMode returns the theme preference.
func (s *Settings) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// CommandFullscreen returns the fullscreen preference shared by every
// command view.
func (s *Settings) CommandFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commandFullscreen
}

// SetDarkMode updates and persists the theme preference.
func (s *Settings) SetDarkMode(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = v
	return s.saveLocked()
}

// SetCommandFullscreen updates and persists the fullscreen preference.
func (s *Settings) SetCommandFullscreen(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commandFullscreen = v
	return s.saveLocked()
}

// ToggleDarkMode flips the theme and returns the new value.
func (s *Settings) ToggleDarkMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	return s.darkMode, s.saveLocked()
}

// ToggleCommandFullscreen flips fullscreen and returns the new value.
func (s *Settings) ToggleCommandFullscreen() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commandFullscreen = !s.commandFullscreen
	return s.commandFullscreen, s.saveLocked()
}

// saveLocked writes the file atomically via a temp file and rename.
// Callers must hold s.mu.
func (s *Settings) saveLocked() error {
	if s.path == "" {
		return nil
	}

	dark, full := s.darkMode, s.commandFullscreen
	data, err := yaml.Marshal(file{DarkMode: &dark, CommandFullscreen: &full})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPrefs, "Failed to encode preferences", "")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrPrefs,
			"Failed to create preferences directory",
			"Check permissions on "+dir)
	}

	tmp, err := os.CreateTemp(dir, "prefs-*.tmp")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPrefs, "Failed to save preferences", "Check permissions on "+dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrPrefs, "Failed to save preferences", "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrPrefs, "Failed to save preferences", "")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrPrefs,
			"Failed to save preferences",
			fmt.Sprintf("Could not replace %s", s.path))
	}

	return nil
}
