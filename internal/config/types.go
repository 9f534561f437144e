package config

// Config represents the complete tsh configuration.
type Config struct {
	Shell   ShellConfig   `yaml:"shell"`
	Journal JournalConfig `yaml:"journal"`
	API     APIConfig     `yaml:"api,omitempty"`
	Events  EventsConfig  `yaml:"events"`

	// Source is the file the config was read from; empty for defaults.
	Source string `yaml:"-"`
}

// ShellConfig defines interactive shell settings.
type ShellConfig struct {
	Prompt   string `yaml:"prompt"`
	MaxJobs  int    `yaml:"max_jobs"`
	LogLevel string `yaml:"log_level"`
}

// JournalConfig defines the job lifecycle journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// APIConfig defines the read-only status server.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	// Token is an optional bearer token; empty disables auth.
	Token string `yaml:"token"`
}

// EventsConfig sizes the in-memory event ring.
type EventsConfig struct {
	Buffer int `yaml:"buffer"`
}

// MaxJobsLimit is the largest accepted shell.max_jobs.
const MaxJobsLimit = 1024

// Defaults returns a Config matching the classic tsh behaviour.
func Defaults() *Config {
	return &Config{
		Shell: ShellConfig{
			Prompt:   "tsh> ",
			MaxJobs:  16,
			LogLevel: "warn",
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    "~/.local/state/tsh/journal.db",
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:7878",
		},
		Events: EventsConfig{
			Buffer: 256,
		},
	}
}
