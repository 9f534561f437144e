package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, interpolates, defaults and validates a config file.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file not found: %w\n"+
			"Hint: Check the path or run with -config", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", absPath, err)
	}
	cfg.Source = absPath
	return cfg, nil
}

// Parse builds a validated Config from YAML. Missing fields take their
// defaults.
func Parse(data []byte) (*Config, error) {
	interpolated := interpolateEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(interpolated), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg = applyConfigDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads the discovered config, or returns defaults when there is
// none. explicit is the -config flag value.
func LoadOrDefault(explicit string) (*Config, error) {
	path, ok := Discover(explicit)
	if !ok {
		cfg := applyConfigDefaults(&Config{})
		return cfg, nil
	}
	return Load(path)
}

func applyConfigDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Shell.Prompt == "" {
		cfg.Shell.Prompt = defaults.Shell.Prompt
	}
	if cfg.Shell.MaxJobs == 0 {
		cfg.Shell.MaxJobs = defaults.Shell.MaxJobs
	}
	if cfg.Shell.LogLevel == "" {
		cfg.Shell.LogLevel = defaults.Shell.LogLevel
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = defaults.Journal.Path
	}
	cfg.Journal.Path = expandHome(cfg.Journal.Path)

	if cfg.API.Listen == "" && !cfg.API.Enabled {
		cfg.API.Listen = defaults.API.Listen
	}

	if cfg.Events.Buffer == 0 {
		cfg.Events.Buffer = defaults.Events.Buffer
	}
	return cfg
}

// interpolateEnv replaces ${VAR} with the environment value. Unknown
// variables are left in place so validation can reject them.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
