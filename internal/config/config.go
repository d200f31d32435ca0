package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay is the starting geometry for the floating window. Zero or
// missing fields fall back to built-in defaults.
type Overlay struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
}

// Config is the optional user configuration.
type Config struct {
	Shell     string   `yaml:"shell"`      // Tenant shell; empty means $SHELL
	ShellArgs []string `yaml:"shell_args"` // Arguments passed to the tenant shell
	LogFile   string   `yaml:"log_file"`   // Log destination; empty discards logs
	Overlay   Overlay  `yaml:"overlay"`
}

// Load reads the configuration at path. A missing file is not an
// error; it yields the zero configuration.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
