package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all cctime configuration.
type Config struct {
	LogPath       string  `toml:"log_path"`
	DefaultClient string  `toml:"default_client"`
	HourlyRate    float64 `toml:"hourly_rate"`

	Mappings map[string]Mapping       `toml:"mappings"`
	Exports  map[string]ExportProfile `toml:"exports"`
}

// Mapping assigns a repository to a billing client and project.
type Mapping struct {
	Client  string `toml:"client"`
	Project string `toml:"project"`
}

// ExportProfile is a named, pre-configured export definition.
type ExportProfile struct {
	Repositories []string `toml:"repositories"`
	Output       string   `toml:"output"`
	Format       string   `toml:"format"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogPath:       "~/.claude/history.jsonl",
		DefaultClient: "Default Client",
		HourlyRate:    0,
		Mappings:      make(map[string]Mapping),
		Exports:       make(map[string]ExportProfile),
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	if cfg.Mappings == nil {
		cfg.Mappings = make(map[string]Mapping)
	}
	if cfg.Exports == nil {
		cfg.Exports = make(map[string]ExportProfile)
	}

	cfg.LogPath = ExpandHome(cfg.LogPath)
	for name, p := range cfg.Exports {
		p.Output = ExpandHome(p.Output)
		cfg.Exports[name] = p
	}

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "cctime", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "cctime", "config.toml"))
	}

	return paths
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// StateDir returns the directory where cctime keeps incremental state.
// Uses $XDG_CONFIG_HOME/cctime if set, otherwise ~/.config/cctime.
func StateDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cctime")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cctime")
}

// Billing resolves the client and project for a repository name.
// Lookup is case-insensitive; unmapped repositories fall back to the
// default client and the repository name itself.
func (c Config) Billing(repoName string) (client, project string) {
	if m, ok := c.Mappings[repoName]; ok {
		return orDefault(m.Client, c.DefaultClient), orDefault(m.Project, repoName)
	}
	lower := strings.ToLower(repoName)
	for name, m := range c.Mappings {
		if strings.ToLower(name) == lower {
			return orDefault(m.Client, c.DefaultClient), orDefault(m.Project, repoName)
		}
	}
	return c.DefaultClient, repoName
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
