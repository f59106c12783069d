package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "TAKEOFF_CONFIG"
	// EnvAPIKey overrides llm.api_key
	EnvAPIKey = "ANTHROPIC_API_KEY"
	// EnvModel overrides llm.model
	EnvModel = "TAKEOFF_LLM_MODEL"
	// ConfigFileName is the config file name in the working directory
	ConfigFileName = "takeoff.yaml"
	// ConfigDirName is the config directory name under ~/.config
	ConfigDirName = "takeoff"
)

// FindConfigPath searches for a config file in priority order:
// 1. $TAKEOFF_CONFIG (explicit path)
// 2. ./takeoff.yaml (working directory)
// 3. ~/.config/takeoff/config.yaml
//
// Returns empty string if no config file found
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// DefaultDatabasePath returns ~/.config/takeoff/history.db, or a file in
// the working directory when there is no home directory.
func DefaultDatabasePath() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "history.db")
	}
	return "./takeoff.db"
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
