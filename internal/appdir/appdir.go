// Package appdir provides names and paths for the donelist state directory.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Name is the application name used for directories and env prefixes.
	Name = "donelist"

	// Dir is the name of the state directory inside the home directory.
	Dir = ".donelist"

	// ConfigFile is the config file name.
	ConfigFile = "donelist.toml"

	// PrefsDir is the file backend directory (inside the state dir).
	PrefsDir = "prefs"

	// PrefsDB is the sqlite backend database (inside the state dir).
	PrefsDB = "prefs.db"

	// HistoryFile holds shell history (inside the state dir).
	HistoryFile = "history"

	// LogsDir holds per-run log files (inside the state dir).
	LogsDir = "logs"
)

// StateDir returns the default state directory, ~/.donelist. It falls back
// to a relative .donelist when the home directory is unknown.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// UserConfigPaths returns the user config file candidates in lookup order.
func UserConfigPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, Name, ConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths,
			filepath.Join(home, Dir, ConfigFile),
			filepath.Join(home, ".config", Name, ConfigFile),
		)
	}
	return paths
}

// ProjectConfigPaths returns the project config file candidates in workDir.
func ProjectConfigPaths(workDir string) []string {
	if workDir == "" {
		workDir = "."
	}
	return []string{
		filepath.Join(workDir, ConfigFile),
		filepath.Join(workDir, "."+ConfigFile),
	}
}

// PrefsPath returns the default prefs location for backend in stateDir.
func PrefsPath(stateDir, backend string) string {
	if backend == "sqlite" {
		return filepath.Join(stateDir, PrefsDB)
	}
	return filepath.Join(stateDir, PrefsDir)
}

// HistoryPath returns the shell history file in stateDir.
func HistoryPath(stateDir string) string {
	return filepath.Join(stateDir, HistoryFile)
}

// LogPath returns the log directory in stateDir.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, LogsDir)
}
