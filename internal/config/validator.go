package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validate(cfg *Config) error {
	if cfg.Shell.MaxJobs < 1 || cfg.Shell.MaxJobs > MaxJobsLimit {
		return fmt.Errorf("shell.max_jobs must be between 1 and %d, got %d", MaxJobsLimit, cfg.Shell.MaxJobs)
	}
	if !validLogLevels[strings.ToLower(cfg.Shell.LogLevel)] {
		return fmt.Errorf("shell.log_level %q must be one of debug, info, warn, error", cfg.Shell.LogLevel)
	}

	if cfg.Journal.Enabled && strings.TrimSpace(cfg.Journal.Path) == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}

	if cfg.API.Enabled && strings.TrimSpace(cfg.API.Listen) == "" {
		return fmt.Errorf("api.listen is required when the api is enabled")
	}
	if envVarPattern.MatchString(cfg.API.Token) {
		return fmt.Errorf("api.token contains unresolved environment variable: %s", cfg.API.Token)
	}

	if cfg.Events.Buffer < 1 {
		return fmt.Errorf("events.buffer must be positive, got %d", cfg.Events.Buffer)
	}
	return nil
}
