package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceDerived  ConfigSource = "derived"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// UI modes.
const (
	UIAuto  = "auto"
	UITUI   = "tui"
	UIShell = "shell"
)

// Default values.
const (
	DefaultStateDir  = "~/.donelist"
	DefaultBackend   = "file"
	DefaultTasksKey  = "tasksKey"
	DefaultUI        = UIAuto
	DefaultTitle     = "To-Do List"
	DefaultAltScreen = true
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for donelist.
type Config struct {
	// Storage
	StateDir  string `toml:"state_dir"`
	Backend   string `toml:"backend"`
	PrefsPath string `toml:"prefs_path"`
	TasksKey  string `toml:"tasks_key"`

	// Interface
	UI        string `toml:"ui"`
	Title     string `toml:"title"`
	AltScreen bool   `toml:"alt_screen"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Warnings collects non-fatal problems found while loading, such as
	// unknown keys in a config file.
	Warnings []string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"state_dir",
		"backend",
		"prefs_path",
		"tasks_key",
		"ui",
		"title",
		"alt_screen",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}
