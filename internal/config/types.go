package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete pimanager configuration.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// BaseURL is the root of the Pi's HTTP API, e.g. http://pi.lan:5000.
	// Endpoint paths (/api/log, /api/stats, ...) are resolved against it.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// PollInterval is the cadence of the recurring stats fetch.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// RevealInterval is the delay between characters of the command output
	// typing effect.
	RevealInterval time.Duration `yaml:"reveal_interval" mapstructure:"reveal_interval"`

	// RequestTimeout bounds every HTTP request. Zero means no timeout: a hung
	// request never resolves and its card keeps its previous content.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// DownloadDir is where CSV exports, command output and report bundles land.
	DownloadDir string `yaml:"download_dir" mapstructure:"download_dir"`

	// PrefsPath is the file holding the persisted UI preferences.
	PrefsPath string `yaml:"prefs_path" mapstructure:"prefs_path"`
}

// Default values.
const (
	DefaultBaseURL        = "http://raspberrypi.local:5000"
	DefaultPollInterval   = 2 * time.Second
	DefaultRevealInterval = time.Millisecond
	DefaultDownloadDir    = "."
)

// MinPollInterval keeps the stats poll from hammering the Pi.
const MinPollInterval = 250 * time.Millisecond

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		BaseURL:        DefaultBaseURL,
		PollInterval:   DefaultPollInterval,
		RevealInterval: DefaultRevealInterval,
		RequestTimeout: 0,
		DownloadDir:    DefaultDownloadDir,
		PrefsPath:      DefaultPrefsPath(),
	}
}
