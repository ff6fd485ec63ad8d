package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/donelist/internal/appdir"
)

// EnvName returns the environment variable that overrides field.
func EnvName(field string) string {
	return strings.ToUpper(appdir.Name + "_" + field)
}

// loadFromEnv overrides config from DONELIST_* environment variables.
// Unparseable booleans are skipped with a warning.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	refs := cfg.fields()
	for _, name := range configFields() {
		v, ok := os.LookupEnv(EnvName(name))
		if !ok || v == "" {
			continue
		}

		ref := refs[name]
		if ref.flag != nil {
			b, err := boolFromString(v)
			if err != nil {
				cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %v", EnvName(name), err))
				continue
			}
			*ref.flag = b
		} else {
			*ref.str = v
		}
		if sources != nil {
			sources[name] = SourceEnv
		}
	}
}

func boolFromString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}
