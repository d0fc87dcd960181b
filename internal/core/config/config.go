package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"cophist/pkg/vscopilot"
)

// Config holds user-tunable settings. Everything has a working default;
// the config file only needs to exist when overriding something.
type Config struct {
	// StorageRoots overrides the per-platform candidate roots entirely
	// when non-empty.
	StorageRoots []string
	// Workers bounds concurrent file parses per storage root.
	Workers int
	// FileTimeout caps how long one session file may take to parse.
	FileTimeout time.Duration
	// Agent overrides the agent label on extracted sessions.
	Agent string
	// DBPath is where the local session index lives.
	DBPath string
}

type tomlConfig struct {
	StorageRoots []string `toml:"storage_roots"`
	Workers      int      `toml:"workers"`
	FileTimeout  string   `toml:"file_timeout"`
	Agent        string   `toml:"agent"`
	DBPath       string   `toml:"db_path"`
}

// Load reads config from ~/.config/cophist/config.toml. A missing or
// unreadable file yields defaults; a present file overrides field by
// field.
func Load() (*Config, error) {
	cfg := &Config{
		Workers:     vscopilot.DefaultWorkers,
		FileTimeout: vscopilot.DefaultFileTimeout,
		Agent:       vscopilot.AgentName,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}
	cfg.DBPath = filepath.Join(home, ".config", "cophist", "sessions.db")

	tomlPath := filepath.Join(home, ".config", "cophist", "config.toml")
	if _, err := os.Stat(tomlPath); err != nil {
		return cfg, nil
	}

	var tc tomlConfig
	if _, err := toml.DecodeFile(tomlPath, &tc); err != nil {
		return cfg, nil
	}
	cfg.apply(&tc)
	return cfg, nil
}

// LoadFile reads a specific config file rather than the default path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		Workers:     vscopilot.DefaultWorkers,
		FileTimeout: vscopilot.DefaultFileTimeout,
		Agent:       vscopilot.AgentName,
	}
	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, err
	}
	cfg.apply(&tc)
	return cfg, nil
}

func (cfg *Config) apply(tc *tomlConfig) {
	if len(tc.StorageRoots) > 0 {
		cfg.StorageRoots = tc.StorageRoots
	}
	if tc.Workers > 0 {
		cfg.Workers = tc.Workers
	}
	if tc.FileTimeout != "" {
		if d, err := time.ParseDuration(tc.FileTimeout); err == nil && d > 0 {
			cfg.FileTimeout = d
		}
	}
	if tc.Agent != "" {
		cfg.Agent = tc.Agent
	}
	if tc.DBPath != "" {
		cfg.DBPath = tc.DBPath
	}
}

// Roots returns the storage roots to scan: the configured override if
// set, else the platform candidates.
func (cfg *Config) Roots() ([]string, error) {
	if len(cfg.StorageRoots) > 0 {
		return cfg.StorageRoots, nil
	}
	return vscopilot.DefaultStorageRoots()
}
