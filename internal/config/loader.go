package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file name looked up in the working directory.
	ConfigFileName = "pimanager.yaml"
	// GlobalConfigDir is the directory for global config and preferences.
	GlobalConfigDir = ".config/pimanager"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// PrefsFileName is the preferences file name inside GlobalConfigDir.
	PrefsFileName = "prefs.yaml"
	// EnvPrefix is the prefix for environment overrides (PIMANAGER_BASE_URL, ...).
	EnvPrefix = "pimanager"
)

// NewViper returns a viper instance with defaults and environment binding
// set up. Callers bind their command-line flags onto it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load resolves the configuration from v, reading the config file found by
// Find(explicit) when there is one. Flags and environment variables bound
// on v take precedence over the file.
func Load(v *viper.Viper, explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML: "+path)
		}
	}

	return parseConfig(v, path)
}

// LoadFile reads config from the specified path only, ignoring the environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Create "+path+" or drop the --config flag")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. pimanager.yaml in current directory
// 3. ~/.config/pimanager/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// DefaultPrefsPath returns ~/.config/pimanager/prefs.yaml, or a path in the
// working directory when the home directory is unknown.
func DefaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return PrefsFileName
	}
	return filepath.Join(home, GlobalConfigDir, PrefsFileName)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		source := "config"
		if path != "" {
			source = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.DownloadDir = ExpandTilde(cfg.DownloadDir)
	cfg.PrefsPath = ExpandTilde(cfg.PrefsPath)

	return cfg, nil
}

// setDefaults registers defaults so env-only keys are visible to Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentConfigVersion)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("poll_interval", DefaultPollInterval.String())
	v.SetDefault("reveal_interval", DefaultRevealInterval.String())
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("download_dir", DefaultDownloadDir)
	v.SetDefault("prefs_path", DefaultPrefsPath())
}
