package reports

// Selection is the set of report kinds the user has checked. Kinds keep the
// order in which they were checked; that order is what the bundle request
// carries.
type Selection struct {
	kinds []Kind
}

// NewSelection returns a selection holding kinds (duplicates ignored).
func NewSelection(kinds ...Kind) Selection {
	var s Selection
	for _, k := range kinds {
		if !s.Has(k) {
			s.kinds = append(s.kinds, k)
		}
	}
	return s
}

// Toggle adds k if absent and removes it if present.
func (s *Selection) Toggle(k Kind) {
	for i, existing := range s.kinds {
		if existing == k {
			s.kinds = append(s.kinds[:i:i], s.kinds[i+1:]...)
			return
		}
	}
	s.kinds = append(s.kinds, k)
}

// Has reports whether k is selected.
func (s Selection) Has(k Kind) bool {
	for _, existing := range s.kinds {
		if existing == k {
			return true
		}
	}
	return false
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.kinds) == 0
}

// Len returns the number of selected kinds.
func (s Selection) Len() int {
	return len(s.kinds)
}

// Kinds returns the selected kinds in selection order.
func (s Selection) Kinds() []Kind {
	out := make([]Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// Names returns the selected kinds as request strings.
func (s Selection) Names() []string {
	out := make([]string, len(s.kinds))
	for i, k := range s.kinds {
		out[i] = string(k)
	}
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.kinds = nil
}
