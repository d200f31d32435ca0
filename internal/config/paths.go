// Package config locates the popsh home directory and loads the
// optional user configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the on-disk layout of a popsh installation.
type Paths struct {
	Home   string // Root directory (~/.popsh)
	Config string // YAML configuration file path
	Logs   string // Logs directory
}

// GetPaths returns the installation layout. POPSH_HOME overrides the
// default root.
func GetPaths() Paths {
	home := os.Getenv("POPSH_HOME")
	if home == "" {
		userHome, _ := os.UserHomeDir()
		home = filepath.Join(userHome, ".popsh")
	}
	return Paths{
		Home:   home,
		Config: filepath.Join(home, "config.yaml"),
		Logs:   filepath.Join(home, "logs"),
	}
}

// ExpandPath expands ~ to the user home directory.
func ExpandPath(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) == 1 {
			return home
		}
		if path[1] == '/' || path[1] == os.PathSeparator {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// EnsureDirs creates the installation layout if it does not exist.
func EnsureDirs() (Paths, error) {
	paths := GetPaths()
	for _, dir := range []string{paths.Home, paths.Logs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return paths, nil
}
