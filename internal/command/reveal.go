package command

// Reveal discloses already-fetched text one rune per tick.
//
// Every Reset starts a new generation. Ticks carry the generation they were
// scheduled for, and a tick from an older generation is ignored, so
// resetting is how an in-progress reveal is cancelled.
type Reveal struct {
	raw   []rune
	shown int
	gen   uint64
}

// Reset starts revealing raw from its first rune and returns the new
// generation.
func (r *Reveal) Reset(raw string) uint64 {
	r.raw = []rune(raw)
	r.shown = 0
	r.gen++
	return r.gen
}

// Tick grows the visible prefix by one rune if gen is current. It reports
// whether another tick should be scheduled.
func (r *Reveal) Tick(gen uint64) bool {
	if gen != r.gen || r.shown >= len(r.raw) {
		return false
	}
	r.shown++
	return r.shown < len(r.raw)
}

// Finish shows the full text at once and invalidates outstanding ticks.
func (r *Reveal) Finish() {
	r.shown = len(r.raw)
	r.gen++
}

// Generation returns the current generation.
func (r *Reveal) Generation() uint64 {
	return r.gen
}

// Pending reports whether part of the text is still hidden.
func (r *Reveal) Pending() bool {
	return r.shown < len(r.raw)
}

// Visible returns the revealed prefix.
func (r *Reveal) Visible() string {
	return string(r.raw[:r.shown])
}

// Raw returns the full text being revealed.
func (r *Reveal) Raw() string {
	return string(r.raw)
}

// Shown returns how many runes are visible.
func (r *Reveal) Shown() int {
	return r.shown
}
