// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($XDG_CONFIG_HOME/donelist/donelist.toml, ~/.donelist/donelist.toml
// or ~/.config/donelist/donelist.toml, first found)
// 3. Project config file (donelist.toml or .donelist.toml in the working directory)
// 4. Environment variables (DONELIST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Paths support ~ and $VAR expansion (%VAR% on Windows). prefs_path and
// log_dir default to locations inside state_dir.
package config
