package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# donelist configuration file
# Values can be overridden by DONELIST_* environment variables or CLI flags

# State directory (supports ~ expansion, $VAR and %VAR% on Windows)
state_dir = "~/.donelist"

# Prefs backend holding the task list: file, sqlite or memory
backend = "file"

# Prefs location (default: <state_dir>/prefs, or <state_dir>/prefs.db for sqlite)
# prefs_path = "~/.donelist/prefs"

# Key the task list is stored under
tasks_key = "tasksKey"

# Interactive front end: auto (tui on a terminal, shell otherwise), tui or shell
ui = "auto"

# Screen title
title = "To-Do List"

# Draw the TUI on the alternate screen
alt_screen = true

# Log directory (default: <state_dir>/logs)
# log_dir = "~/.donelist/logs"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false
`
}
