package poller

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/pimanager/internal/api"
)

// Slot identifies the piece of display state a fetch owns.
type Slot int

const (
	SlotLog Slot = iota
	SlotStatus
	SlotSpeedTest
	SlotSpeedHistory
	SlotStats
	SlotTrigger
	SlotBusy
)

func (s Slot) String() string {
	switch s {
	case SlotLog:
		return "log"
	case SlotStatus:
		return "status"
	case SlotSpeedTest:
		return "speedtest"
	case SlotSpeedHistory:
		return "speedlog"
	case SlotStats:
		return "stats"
	case SlotTrigger:
		return "trigger"
	case SlotBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Update is the result of one completed fetch. Only the fields belonging to
// Slot are meaningful.
type Update struct {
	Slot   Slot
	Text   string
	Stats  api.Stats
	Speed  []api.SpeedSample
	Action api.Action
	Busy   int
	Err    error
	At     time.Time
}

// SlotError is the most recent failure of a slot.
type SlotError struct {
	Err error
	At  time.Time
}

// State is what the dashboard displays. Each field is replaced wholesale by
// the fetch that owns it; a fetch never touches another slot.
type State struct {
	Log          string
	Status       string
	SpeedTest    string
	Stats        api.Stats
	SpeedHistory []api.SpeedSample

	// Notice describes the last remote action trigger.
	Notice string
	// Busy counts running speed tests and remote actions.
	Busy int

	Updated map[Slot]time.Time
	Errors  map[Slot]SlotError
}

// NewState returns an empty state.
func NewState() State {
	return State{
		Updated: make(map[Slot]time.Time),
		Errors:  make(map[Slot]SlotError),
	}
}

// Apply folds u into the state.
//
// Text slots show a failure in place of their content. JSON slots keep the
// last good value when a fetch fails, so the series and device list are
// always a complete snapshot from one successful poll.
func (s *State) Apply(u Update) {
	if s.Updated == nil {
		s.Updated = make(map[Slot]time.Time)
	}
	if s.Errors == nil {
		s.Errors = make(map[Slot]SlotError)
	}

	if u.Slot == SlotBusy {
		s.Busy = u.Busy
		return
	}

	if u.Err != nil {
		s.Errors[u.Slot] = SlotError{Err: u.Err, At: u.At}
	} else {
		delete(s.Errors, u.Slot)
		s.Updated[u.Slot] = u.At
	}

	switch u.Slot {
	case SlotLog:
		s.Log = api.RenderText(u.Text, u.Err)
	case SlotStatus:
		s.Status = api.RenderText(u.Text, u.Err)
	case SlotSpeedTest:
		s.SpeedTest = api.RenderText(u.Text, u.Err)
	case SlotStats:
		if u.Err == nil {
			s.Stats = u.Stats
		}
	case SlotSpeedHistory:
		if u.Err == nil {
			s.SpeedHistory = u.Speed
		}
	case SlotTrigger:
		if u.Err != nil {
			s.Notice = fmt.Sprintf("%s request failed: %v", u.Action, u.Err)
		} else {
			s.Notice = fmt.Sprintf("%s requested", u.Action)
		}
	}
}

// Err returns the last failure recorded for slot, if any.
func (s State) Err(slot Slot) error {
	if e, ok := s.Errors[slot]; ok {
		return e.Err
	}
	return nil
}
