// Package reports implements the report bundle download: the user picks a
// subset of diagnostic reports and the Pi zips their outputs.
package reports

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pimanager/internal/api"
)

// Kind names one diagnostic report the Pi can produce.
type Kind string

const (
	KindFastfetch Kind = "fastfetch"
	KindStui      Kind = "stui"
	KindSpeedtest Kind = "speedtest"
	KindLog       Kind = "log"
)

// Info describes a Kind for display.
type Info struct {
	Kind     Kind
	Label    string
	Endpoint string
}

var kinds = []Info{
	{Kind: KindFastfetch, Label: "🧾 Fastfetch Info", Endpoint: api.PathFastfetch},
	{Kind: KindStui, Label: "📊 s-tui Stats", Endpoint: api.PathStui},
	{Kind: KindSpeedtest, Label: "⚡ Speedtest", Endpoint: api.PathSpeedTest},
	{Kind: KindLog, Label: "📝 System Update Log", Endpoint: api.PathLog},
}

// Kinds returns every report kind in display order.
func Kinds() []Info {
	out := make([]Info, len(kinds))
	copy(out, kinds)
	return out
}

// Label returns the human label for k, or the raw name if unknown.
func (k Kind) Label() string {
	for _, info := range kinds {
		if info.Kind == k {
			return info.Label
		}
	}
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, info := range kinds {
		if info.Kind == k {
			return true
		}
	}
	return false
}

// ParseKinds splits a comma-separated list such as "fastfetch,log".
// Duplicates collapse to their first occurrence.
func ParseKinds(list string) ([]Kind, error) {
	var out []Kind
	seen := make(map[Kind]bool)
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		k := Kind(name)
		if !k.Valid() {
			return nil, fmt.Errorf("unknown report %q (want fastfetch, stui, speedtest or log)", part)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}
