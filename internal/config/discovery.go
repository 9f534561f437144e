package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable consulted after -config.
const EnvConfigPath = "TSH_CONFIG"

// Discover finds the config file to load.
// Priority order: explicit path (-config flag), $TSH_CONFIG, ~/.config/tsh/config.yaml.
// An explicit path is returned even if it does not exist, so Load can report it.
func Discover(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}

	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, true
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userConfig := filepath.Join(homeDir, ".config", "tsh", "config.yaml")
		if fileExists(userConfig) {
			return userConfig, true
		}
	}

	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
