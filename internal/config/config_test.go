package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RELAY_PORT", "")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 3000 || cfg.MaxMembers != 3 || cfg.Mode != "release" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Errorf("ping/pong = %s/%s", cfg.PingPeriod, cfg.PongWait)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("allowed origins = %v, want none", cfg.AllowedOrigins)
	}
}

func TestLoadFileReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	data := []byte("mode: debug\nport: 9000\nmax_members: 5\nsend_buffer: 8\nallowed_origins:\n  - http://localhost:3000\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9000 || cfg.MaxMembers != 5 || cfg.SendBuffer != 8 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_MAX_MEMBERS", "4")
	t.Setenv("PORT", "8123")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.MaxMembers != 4 {
		t.Errorf("max members = %d, want 4", cfg.MaxMembers)
	}
	if cfg.Port != 8123 {
		t.Errorf("port = %d, want 8123", cfg.Port)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_members: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: 3000, MaxMembers: 3, SendBuffer: 1, PingPeriod: time.Second, PongWait: 2 * time.Second}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	bad := base
	bad.PingPeriod = 3 * time.Second
	if err := bad.Validate(); err == nil {
		t.Error("ping period longer than pong wait should be rejected")
	}
}
