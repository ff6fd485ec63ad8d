package config

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/nibzard/donelist/internal/appdir"
)

var flagUsage = map[string]string{
	"state_dir":      "State directory",
	"backend":        "Prefs backend (file, sqlite, memory)",
	"prefs_path":     "Prefs location (default derived from state dir)",
	"tasks_key":      "Prefs key holding the task list",
	"ui":             "Interactive front end (auto, tui, shell)",
	"title":          "Screen title",
	"alt_screen":     "Use the alternate screen in the TUI",
	"log_dir":        "Log directory (default <state dir>/logs)",
	"log_level":      "Log level (debug, info, warn, error)",
	"log_format":     "Log format (text, json, logfmt)",
	"log_timestamps": "Show timestamps in logs",
	"log_caller":     "Show caller location in logs",
}

// FlagName returns the CLI flag that overrides field.
func FlagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// parseFlags registers the config flags on fs, parses args and applies the
// flags that were set.
func parseFlags(cfg *Config, fs *pflag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = pflag.NewFlagSet(appdir.Name, pflag.ContinueOnError)
	}

	// Bind to copies so unset flags cannot clobber file or env values.
	strs := make(map[string]*string)
	bools := make(map[string]*bool)
	refs := cfg.fields()
	for _, name := range configFields() {
		ref := refs[name]
		if ref.flag != nil {
			bools[name] = fs.Bool(FlagName(name), *ref.flag, flagUsage[name])
		} else {
			strs[name] = fs.String(FlagName(name), *ref.str, flagUsage[name])
		}
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, name := range configFields() {
		if !fs.Changed(FlagName(name)) {
			continue
		}
		if p, ok := bools[name]; ok {
			*refs[name].flag = *p
		} else {
			*refs[name].str = *strs[name]
		}
		if sources != nil {
			sources[name] = SourceFlag
		}
	}
	return nil
}
