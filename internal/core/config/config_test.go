package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cophist/pkg/vscopilot"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
storage_roots = ["/custom/root"]
workers = 3
file_timeout = "2s"
agent = "copilot-nightly"
db_path = "/tmp/idx.db"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(cfg.StorageRoots) != 1 || cfg.StorageRoots[0] != "/custom/root" {
		t.Errorf("StorageRoots = %v, want [/custom/root]", cfg.StorageRoots)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.FileTimeout != 2*time.Second {
		t.Errorf("FileTimeout = %v, want 2s", cfg.FileTimeout)
	}
	if cfg.Agent != "copilot-nightly" {
		t.Errorf("Agent = %v, want copilot-nightly", cfg.Agent)
	}
	if cfg.DBPath != "/tmp/idx.db" {
		t.Errorf("DBPath = %v, want /tmp/idx.db", cfg.DBPath)
	}

	roots, err := cfg.Roots()
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 || roots[0] != "/custom/root" {
		t.Errorf("Roots() = %v, want configured override", roots)
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != vscopilot.DefaultWorkers {
		t.Errorf("Workers = %d, want default %d", cfg.Workers, vscopilot.DefaultWorkers)
	}
	if cfg.FileTimeout != vscopilot.DefaultFileTimeout {
		t.Errorf("FileTimeout = %v, want default %v", cfg.FileTimeout, vscopilot.DefaultFileTimeout)
	}
	if cfg.Agent != vscopilot.AgentName {
		t.Errorf("Agent = %v, want default %v", cfg.Agent, vscopilot.AgentName)
	}
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("workers = [nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() error = nil, want decode error")
	}
}
