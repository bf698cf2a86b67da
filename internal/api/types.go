package api

import (
	"fmt"
	"strings"
)

// QueryPoint is one sample of the DNS query count series.
type QueryPoint struct {
	Time    string `json:"time"`
	Queries int64  `json:"queries"`
}

// BlockedPoint is one sample of the blocked-domain count series.
type BlockedPoint struct {
	Time    string `json:"time"`
	Blocked int64  `json:"blocked"`
}

// DeviceUsage is the number of queries a client made today.
type DeviceUsage struct {
	Device  string `json:"device"`
	Queries int64  `json:"queries"`
}

// String renders the usage the way the device card lists it.
func (d DeviceUsage) String() string {
	return fmt.Sprintf("%s: %d queries", d.Device, d.Queries)
}

// Stats is the body of GET /api/stats. Each poll replaces the whole value.
type Stats struct {
	Queries []QueryPoint   `json:"queries"`
	Blocked []BlockedPoint `json:"blocked"`
	Devices []DeviceUsage  `json:"devices"`
}

// SpeedSample is one entry of GET /api/speedlog, in Mbit/s.
type SpeedSample struct {
	Time     string  `json:"time"`
	Download float64 `json:"download"`
	Upload   float64 `json:"upload"`
}

// SystemInfo is the body of GET /api/system.
type SystemInfo struct {
	OS     string  `json:"os"`
	Uptime string  `json:"uptime"`
	CPU    float64 `json:"cpu"`
	RAM    float64 `json:"ram"`
	Power  string  `json:"power"`
	Error  string  `json:"error,omitempty"`
}

// Action is a remote maintenance action triggered via GET /api/{action}.
type Action string

const (
	ActionUpdate Action = "update"
	ActionReboot Action = "reboot"
)

// Actions lists the supported actions.
func Actions() []Action {
	return []Action{ActionUpdate, ActionReboot}
}

// ParseAction validates a user-supplied action name.
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q (want update or reboot)", name)
}

// Path returns the endpoint path for the action.
func (a Action) Path() string {
	return "/api/" + string(a)
}
