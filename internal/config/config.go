// Package config loads optional invocation defaults from a YAML file.
// Command-line flags always override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File holds the user-configurable defaults. All fields are optional; the
// zero value means "use the built-in default".
type File struct {
	// Case is the default case mode ("sensitive" or "insensitive") applied
	// when no --case flag is given. An empty value keeps the per-kind
	// defaults (insensitive for literal patterns, sensitive for regex).
	Case string `yaml:"case"`
	// LineNumbers prefixes emitted lines with their line number.
	LineNumbers bool `yaml:"line_numbers"`
	// Log configures the default logger.
	Log LogConfig `yaml:"log"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultPath returns the conventional config file location,
// ~/.config/mgrep/config.yaml, or an empty string when the home directory
// cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mgrep", "config.yaml")
}

// Load reads a config file. When explicit is false, a missing file is not
// an error: the zero config is returned. An explicitly requested file must
// exist.
func Load(path string, explicit bool) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
