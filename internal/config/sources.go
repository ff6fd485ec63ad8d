package config

import (
	"os"

	"github.com/nibzard/donelist/internal/appdir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	return firstExisting(appdir.ProjectConfigPaths("."))
}

// findUserConfigFile looks for a user-level config file.
// $XDG_CONFIG_HOME wins over ~/.donelist, which wins over ~/.config.
func findUserConfigFile() string {
	return firstExisting(appdir.UserConfigPaths())
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// setDefaults applies default values to the config. prefs_path and log_dir
// stay empty so finalizeConfig can derive them from state_dir.
func setDefaults(cfg *Config) {
	cfg.StateDir = DefaultStateDir
	cfg.Backend = DefaultBackend
	cfg.PrefsPath = ""
	cfg.TasksKey = DefaultTasksKey
	cfg.UI = DefaultUI
	cfg.Title = DefaultTitle
	cfg.AltScreen = DefaultAltScreen

	// Logging defaults
	cfg.LogDir = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
}

// ConfigFile returns the config file with the highest precedence that was
// read, or "" if none was.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
