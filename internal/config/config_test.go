package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommandTimeout != 30*time.Second {
		t.Errorf("CommandTimeout = %s", cfg.CommandTimeout)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %s", cfg.RefreshInterval)
	}
	if cfg.TransferTimeout != 10*time.Minute {
		t.Errorf("TransferTimeout = %s", cfg.TransferTimeout)
	}
	if !cfg.History {
		t.Error("History disabled by default")
	}
	if cfg.Devices == nil {
		t.Error("Devices map is nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.CommandTimeout = 45 * time.Second
	cfg.MaxParallel = 2
	cfg.Devices["R58M123"] = DeviceConfig{Nickname: "lab phone", WiFiIP: "192.168.1.20"}
	cfg.Destinations = append(cfg.Destinations, Destination{Name: "nas", RcloneRemote: "nas:fetchdroid"})
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CommandTimeout != 45*time.Second {
		t.Errorf("CommandTimeout = %s", got.CommandTimeout)
	}
	if got.MaxParallel != 2 {
		t.Errorf("MaxParallel = %d", got.MaxParallel)
	}
	if got.Nickname("R58M123") != "lab phone" {
		t.Errorf("Nickname = %q", got.Nickname("R58M123"))
	}
	if len(got.Destinations) != 1 || got.Destinations[0].RcloneRemote != "nas:fetchdroid" {
		t.Errorf("Destinations = %+v", got.Destinations)
	}
}

func TestLoadParsesDurationStrings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "fetchdroid", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "command_timeout: 10s\nrefresh_interval: 1m30s\ntransfer_timeout: 20m\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommandTimeout != 10*time.Second {
		t.Errorf("CommandTimeout = %s", cfg.CommandTimeout)
	}
	if cfg.RefreshInterval != 90*time.Second {
		t.Errorf("RefreshInterval = %s", cfg.RefreshInterval)
	}
	if cfg.TransferTimeout != 20*time.Minute {
		t.Errorf("TransferTimeout = %s", cfg.TransferTimeout)
	}
	if cfg.MaxParallel != 4 {
		t.Errorf("MaxParallel = %d, want default 4", cfg.MaxParallel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "fetchdroid", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("max_parallel: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted max_parallel 0")
	}
}

func TestResourcesOverrideAndExpansion(t *testing.T) {
	t.Setenv(ResourcesEnv, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := &Config{ResourcesDir: "~/tools"}
	if got, want := cfg.Resources(), filepath.Join(home, "tools"); got != want {
		t.Errorf("Resources() = %q, want %q", got, want)
	}

	t.Setenv(ResourcesEnv, "/opt/android")
	if got := cfg.Resources(); got != "/opt/android" {
		t.Errorf("Resources() with env = %q", got)
	}
}
