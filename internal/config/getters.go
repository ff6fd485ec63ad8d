package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nibzard/donelist/internal/logging"
	"github.com/nibzard/donelist/internal/prefs"
)

// field points at one configurable value. Exactly one of str and flag is set.
type field struct {
	str  *string
	flag *bool
}

func (c *Config) fields() map[string]field {
	return map[string]field{
		"state_dir":      {str: &c.StateDir},
		"backend":        {str: &c.Backend},
		"prefs_path":     {str: &c.PrefsPath},
		"tasks_key":      {str: &c.TasksKey},
		"ui":             {str: &c.UI},
		"title":          {str: &c.Title},
		"alt_screen":     {flag: &c.AltScreen},
		"log_dir":        {str: &c.LogDir},
		"log_level":      {str: &c.LogLevel},
		"log_format":     {str: &c.LogFormat},
		"log_timestamps": {flag: &c.LogTimestamps},
		"log_caller":     {flag: &c.LogCaller},
	}
}

// Value returns the named field formatted for display, or "" for an
// unknown name.
func (c *Config) Value(name string) string {
	f, ok := c.fields()[name]
	switch {
	case !ok:
		return ""
	case f.flag != nil:
		return strconv.FormatBool(*f.flag)
	default:
		return *f.str
	}
}

// LogOptions returns the logger options for this configuration.
func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.Timestamps = c.LogTimestamps
	opts.Caller = c.LogCaller
	return opts
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(prefs.Backends(), c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q: expected one of %s", c.Backend, strings.Join(prefs.Backends(), ", ")))
	}
	if !prefs.ValidKey(c.TasksKey) {
		errs = append(errs, fmt.Errorf("tasks_key %q: only letters, digits, '.', '_' and '-' are allowed", c.TasksKey))
	}
	switch c.UI {
	case UIAuto, UITUI, UIShell:
	default:
		errs = append(errs, fmt.Errorf("ui %q: expected auto, tui or shell", c.UI))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q: expected debug, info, warn, error or fatal", c.LogLevel))
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format %q: expected text, json or logfmt", c.LogFormat))
	}
	return errors.Join(errs...)
}
