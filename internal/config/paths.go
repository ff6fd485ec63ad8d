package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var windowsEnvPattern = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

// expandPath expands $VAR, a leading ~ and, on Windows, %VAR% in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = windowsEnvPattern.ReplaceAllStringFunc(expanded, func(m string) string {
			if val, ok := os.LookupEnv(m[1 : len(m)-1]); ok {
				return val
			}
			return m
		})
	}

	switch {
	case expanded == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(expanded, "~/"),
		runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, expanded[2:])
		}
	}
	return expanded
}
