package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/nibzard/donelist/internal/appdir"
	"github.com/nibzard/donelist/internal/prefs"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file (donelist.toml or .donelist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// Config flags are registered on fs before args are parsed, so callers may
// add their own flags to fs first.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *pflag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	var files []string

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg, sources); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// loadConfigFile decodes the TOML file at path over cfg. Only keys present
// in the file change cfg; unknown keys become warnings.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return nil
}

// finalizeConfig normalizes values, computes derived paths and validates.
func finalizeConfig(cfg *Config, sources map[string]ConfigSource) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	cfg.StateDir = expandPath(cfg.StateDir)
	if cfg.StateDir == "" {
		return fmt.Errorf("state_dir is empty")
	}

	if cfg.PrefsPath == "" {
		if cfg.Backend != prefs.BackendMemory {
			cfg.PrefsPath = appdir.PrefsPath(cfg.StateDir, cfg.Backend)
		}
		if sources != nil {
			sources["prefs_path"] = SourceDerived
		}
	} else {
		cfg.PrefsPath = expandPath(cfg.PrefsPath)
	}

	if cfg.LogDir == "" {
		cfg.LogDir = appdir.LogPath(cfg.StateDir)
		if sources != nil {
			sources["log_dir"] = SourceDerived
		}
	} else {
		cfg.LogDir = expandPath(cfg.LogDir)
	}

	return cfg.Validate()
}
