package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Saver stores a finished download under a file name and returns where it went.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes downloads into a directory. Existing files with the same
// name are replaced.
type DirSaver struct {
	Dir string
}

// NewDirSaver returns a saver rooted at dir ("" means the working directory).
func NewDirSaver(dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{Dir: dir}
}

// Save writes data to Dir/name through a temp file so a crash never leaves
// a half-written download behind.
func (s *DirSaver) Save(name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Dir, err)
	}

	dest := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(s.Dir, ".download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename to %s: %w", dest, err)
	}

	return dest, nil
}

// SavedFile is one Save call captured by MemorySaver.
type SavedFile struct {
	Name string
	Data []byte
}

// MemorySaver keeps downloads in memory. Used by tests and dry runs.
type MemorySaver struct {
	mu    sync.Mutex
	Files []SavedFile
	Err   error
}

// Save records the file, or returns Err when set.
func (m *MemorySaver) Save(name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.Files = append(m.Files, SavedFile{Name: name, Data: cp})
	return name, nil
}

// Saved returns a copy of the captured files.
func (m *MemorySaver) Saved() []SavedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SavedFile, len(m.Files))
	copy(out, m.Files)
	return out
}
