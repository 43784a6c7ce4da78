package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the config file when -config is not given.
const EnvConfigPath = "LEARNGL_CONFIG"

// Load builds the configuration from defaults, then the config file, then
// command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path, err := locateConfig(ConfigPath())
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// locateConfig picks the file to read. An explicit path, from the flag or
// LEARNGL_CONFIG, must exist. Otherwise the search paths are tried and
// finding none is not an error.
func locateConfig(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfigPath)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	return findConfigFile(), nil
}

// searchPaths lists where a config file is looked for, in order.
func searchPaths() []string {
	return []string{
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
}

func findConfigFile() string {
	for _, path := range searchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory: learngl under
// $XDG_CONFIG_HOME or ~/.config, LearnGL under Application Support on
// macOS and %AppData% on Windows.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	switch runtime.GOOS {
	case "darwin", "windows":
		return filepath.Join(base, "LearnGL")
	}
	return filepath.Join(base, "learngl")
}

// loadFromFile merges the YAML file at path over cfg. Unknown keys are
// rejected so misspelled settings do not silently fall back to defaults.
// An empty file changes nothing.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
