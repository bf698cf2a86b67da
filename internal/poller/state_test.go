package poller

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestApply_DeviceListRendering(t *testing.T) {
	state := NewState()
	state.Apply(Update{
		Slot: SlotStats,
		Stats: api.Stats{
			Queries: []api.QueryPoint{{Time: "10:00", Queries: 5}},
			Blocked: []api.BlockedPoint{},
			Devices: []api.DeviceUsage{{Device: "phone", Queries: 5}},
		},
		At: t0,
	})

	require.Len(t, state.Stats.Devices, 1)
	assert.Equal(t, "phone: 5 queries", state.Stats.Devices[0].String())
	assert.Equal(t, t0, state.Updated[SlotStats])
}

func TestApply_OnlyTouchesOwnSlot(t *testing.T) {
	base := func() State {
		s := NewState()
		s.Log = "log"
		s.Status = "status"
		s.SpeedTest = "speed"
		s.Stats = api.Stats{Devices: []api.DeviceUsage{{Device: "tv", Queries: 1}}}
		s.SpeedHistory = []api.SpeedSample{{Time: "a", Download: 1, Upload: 1}}
		return s
	}

	tests := []struct {
		name   string
		update Update
		check  func(t *testing.T, s State)
	}{
		{
			name:   "log",
			update: Update{Slot: SlotLog, Text: "new log"},
			check: func(t *testing.T, s State) {
				assert.Equal(t, "new log", s.Log)
				assert.Equal(t, "status", s.Status)
				assert.Equal(t, "speed", s.SpeedTest)
			},
		},
		{
			name:   "status",
			update: Update{Slot: SlotStatus, Text: "disabled"},
			check: func(t *testing.T, s State) {
				assert.Equal(t, "disabled", s.Status)
				assert.Equal(t, "log", s.Log)
			},
		},
		{
			name:   "stats replaces the whole snapshot",
			update: Update{Slot: SlotStats, Stats: api.Stats{Queries: []api.QueryPoint{{Time: "x", Queries: 2}}}},
			check: func(t *testing.T, s State) {
				assert.Len(t, s.Stats.Queries, 1)
				assert.Empty(t, s.Stats.Devices, "devices are replaced, not merged")
				assert.Len(t, s.SpeedHistory, 1)
				assert.Equal(t, "log", s.Log)
			},
		},
		{
			name:   "speed history",
			update: Update{Slot: SlotSpeedHistory, Speed: []api.SpeedSample{}},
			check: func(t *testing.T, s State) {
				assert.Empty(t, s.SpeedHistory)
				assert.Len(t, s.Stats.Devices, 1)
			},
		},
		{
			name:   "busy",
			update: Update{Slot: SlotBusy, Busy: 2},
			check: func(t *testing.T, s State) {
				assert.Equal(t, 2, s.Busy)
				assert.Equal(t, "log", s.Log)
				assert.NotContains(t, s.Updated, SlotBusy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			s.Apply(tt.update)
			tt.check(t, s)
		})
	}
}

func TestApply_TextFailureShowsError(t *testing.T) {
	state := NewState()
	state.Log = "old log"

	state.Apply(Update{Slot: SlotLog, Err: stderrors.New("dial tcp: connection refused"), At: t0})
	assert.Equal(t, "Error: dial tcp: connection refused", state.Log)
	assert.Error(t, state.Err(SlotLog))

	state.Apply(Update{Slot: SlotLog, Text: "fresh", At: t0.Add(time.Second)})
	assert.Equal(t, "fresh", state.Log)
	assert.NoError(t, state.Err(SlotLog), "success clears the error")
}

func TestApply_JSONFailureKeepsLastGoodSnapshot(t *testing.T) {
	good := api.Stats{
		Queries: []api.QueryPoint{{Time: "10:00", Queries: 5}, {Time: "10:00", Queries: 6}},
		Devices: []api.DeviceUsage{{Device: "phone", Queries: 5}},
	}

	state := NewState()
	state.Apply(Update{Slot: SlotStats, Stats: good, At: t0})
	state.Apply(Update{Slot: SlotStats, Err: stderrors.New("decode /api/stats: unexpected EOF"), At: t0.Add(2 * time.Second)})

	assert.Equal(t, good, state.Stats)
	assert.Len(t, state.Stats.Queries, 2, "duplicate timestamps are preserved")
	assert.Equal(t, t0, state.Updated[SlotStats], "last success time unchanged")
	require.Contains(t, state.Errors, SlotStats)
	assert.Equal(t, t0.Add(2*time.Second), state.Errors[SlotStats].At)

	history := []api.SpeedSample{{Time: "a", Download: 1, Upload: 2}}
	state.Apply(Update{Slot: SlotSpeedHistory, Speed: history})
	state.Apply(Update{Slot: SlotSpeedHistory, Err: stderrors.New("timeout")})
	assert.Equal(t, history, state.SpeedHistory)
}

func TestApply_ZeroValueState(t *testing.T) {
	var state State
	assert.NotPanics(t, func() {
		state.Apply(Update{Slot: SlotStatus, Text: "ok"})
	})
	assert.Equal(t, "ok", state.Status)
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "speedlog", SlotSpeedHistory.String())
	assert.Equal(t, "unknown", Slot(99).String())
}
