package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/pimanager/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pimanager only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pimanager or lower the version field.")
	}

	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Set base_url to something like http://raspberrypi.local:5000")
	}

	if err := validateIntervals(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Use a Go duration like 2s, 500ms or 1m.")
	}

	if strings.TrimSpace(cfg.DownloadDir) == "" {
		return errors.New(errors.ErrConfig,
			"download_dir is empty",
			"Point download_dir at a writable directory, or use '.'")
	}

	return nil
}

// validateBaseURL requires an absolute http(s) URL.
func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base_url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url '%s' isn't a valid URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url '%s' needs an http:// or https:// scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url '%s' has no host", raw)
	}
	return nil
}

// validateIntervals checks poll, reveal and timeout durations.
func validateIntervals(cfg *Config) error {
	if cfg.PollInterval < MinPollInterval {
		return fmt.Errorf("poll_interval %v is too short - minimum is %v", cfg.PollInterval, MinPollInterval)
	}
	if cfg.RevealInterval <= 0 {
		return fmt.Errorf("reveal_interval must be positive, got %v", cfg.RevealInterval)
	}
	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout can't be negative")
	}
	return nil
}
