package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.CurrencySymbol != "$" || cfg.General.RecentCount != 5 {
		t.Fatalf("general = %+v", cfg.General)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.ResetOnCorrupt {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally", "config.toml")
	cfg := DefaultConfig()
	cfg.General.CurrencySymbol = "€"
	cfg.Storage.ResetOnCorrupt = true
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.CurrencySymbol != "€" || !got.Storage.ResetOnCorrupt || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nreset_on_corrupt = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.Storage.ResetOnCorrupt || cfg.Storage.Backend != BackendSQLite || cfg.General.RecentCount != 5 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/other.db")
	t.Setenv(EnvBackend, "MEMORY")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DBPath() != "/tmp/other.db" || cfg.Storage.Backend != BackendMemory || cfg.Log.Level != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestInvalidBackendRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"redis\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Fatalf("err = %v", err)
	}
}

func TestDefaultDBPathUnderXDGData(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	if got := DefaultConfig().DBPath(); got != filepath.Join(dir, "tally", "tally.db") {
		t.Fatalf("DBPath = %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "tally"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tally", ".env"), []byte("TALLY_CURRENCY=£\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvCurrency, "")
	_ = os.Unsetenv(EnvCurrency)

	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvCurrency); got != "£" {
		t.Fatalf("%s = %q", EnvCurrency, got)
	}
}
