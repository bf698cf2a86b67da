package command

import (
	"strings"

	"github.com/atotto/clipboard"
)

// Selection is a highlighted range of lines in the output pane. The anchor
// is where highlighting started and the cursor is where it is now; either
// may come first.
type Selection struct {
	anchor int
	cursor int
	active bool
}

// Begin starts a selection at line.
func (s *Selection) Begin(line int) {
	s.anchor = line
	s.cursor = line
	s.active = true
}

// Extend moves the selection cursor to line. It starts a selection if none
// is active.
func (s *Selection) Extend(line int) {
	if !s.active {
		s.Begin(line)
		return
	}
	s.cursor = line
}

// Clear drops the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Active reports whether anything is highlighted.
func (s Selection) Active() bool {
	return s.active
}

// Range returns the first and last selected line, inclusive.
func (s Selection) Range() (first, last int) {
	if s.anchor <= s.cursor {
		return s.anchor, s.cursor
	}
	return s.cursor, s.anchor
}

// Contains reports whether line is highlighted.
func (s Selection) Contains(line int) bool {
	if !s.active {
		return false
	}
	first, last := s.Range()
	return line >= first && line <= last
}

// Text returns the highlighted lines of text, clamped to what exists.
// It returns "" when nothing is selected.
func (s Selection) Text(text string) string {
	if !s.active || text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	first, last := s.Range()
	if first < 0 {
		first = 0
	}
	if last >= len(lines) {
		last = len(lines) - 1
	}
	if first > last {
		return ""
	}
	return strings.Join(lines[first:last+1], "\n")
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// CopySelection copies the highlighted part of visible to cb. It reports
// whether anything was copied; an empty selection is a no-op.
func CopySelection(cb Clipboard, sel Selection, visible string) (bool, error) {
	text := sel.Text(visible)
	if text == "" {
		return false, nil
	}
	if err := cb.WriteAll(text); err != nil {
		return false, err
	}
	return true, nil
}
