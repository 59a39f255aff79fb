package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func resetRuntime(t *testing.T) {
	t.Helper()
	origDir := runtimeDataDir
	origPort := runtimePort
	t.Cleanup(func() {
		runtimeDataDir = origDir
		runtimePort = origPort
	})
}

func TestRuntimePort(t *testing.T) {
	resetRuntime(t)

	SetRuntimePort(9000)
	if got := GetRuntimePort(); got != 9000 {
		t.Fatalf("expected 9000, got %d", got)
	}
	SetRuntimePort(0)
	if got := GetRuntimePort(); got != 9000 {
		t.Fatalf("expected invalid port to be ignored, got %d", got)
	}
}

func TestGetDataDirPrecedence(t *testing.T) {
	resetRuntime(t)

	envDir := filepath.Join(t.TempDir(), "env-data")
	t.Setenv(EnvDataDir, envDir)

	got, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if got != envDir {
		t.Fatalf("expected env dir %q, got %q", envDir, got)
	}
	if info, err := os.Stat(envDir); err != nil || !info.IsDir() {
		t.Fatalf("expected env dir to be created")
	}

	runtimeDir := filepath.Join(t.TempDir(), "runtime-data")
	SetRuntimeDataDir(runtimeDir)
	got, err = GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if got != runtimeDir {
		t.Fatalf("expected runtime dir to win, got %q", got)
	}
}

func TestGetDBPath(t *testing.T) {
	resetRuntime(t)

	t.Setenv(EnvDBPath, "/tmp/custom.db")
	got, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if got != "/tmp/custom.db" {
		t.Fatalf("expected env path, got %q", got)
	}

	t.Setenv(EnvDBPath, "")
	dataDir := t.TempDir()
	SetRuntimeDataDir(dataDir)
	got, err = GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if filepath.Dir(got) != dataDir {
		t.Fatalf("expected db inside data dir, got %q", got)
	}
	if filepath.Base(got) != defaultDBName {
		t.Fatalf("expected default db name, got %q", filepath.Base(got))
	}
}

func TestUserConfigRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG override not applicable on windows")
	}
	resetRuntime(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := LoadUserConfig()
	if cfg.DBName != defaultDBName {
		t.Fatalf("expected default db name, got %q", cfg.DBName)
	}

	cfg.DBName = "ledger.db"
	cfg.DataDir = "/srv/wealthlens"
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}

	loaded := LoadUserConfig()
	if loaded.DBName != "ledger.db" || loaded.DataDir != "/srv/wealthlens" {
		t.Fatalf("unexpected loaded config: %+v", loaded)
	}
}

func TestLoadUserConfigBadJSON(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG override not applicable on windows")
	}
	resetRuntime(t)
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "wealthlens")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := LoadUserConfig()
	if cfg.DBName != defaultDBName {
		t.Fatalf("expected defaults on bad json, got %+v", cfg)
	}
}

func TestGetRefreshSchedule(t *testing.T) {
	t.Setenv(EnvRefreshSchedule, "")
	if got := GetRefreshSchedule(); got != "30 18 * * *" {
		t.Fatalf("unexpected default schedule %q", got)
	}
	t.Setenv(EnvRefreshSchedule, "0 9 * * 1-5")
	if got := GetRefreshSchedule(); got != "0 9 * * 1-5" {
		t.Fatalf("unexpected schedule %q", got)
	}
}

func TestGetQuoteBaseURL(t *testing.T) {
	t.Setenv(EnvQuoteBaseURL, "  https://quotes.example.com  ")
	if got := GetQuoteBaseURL(); got != "https://quotes.example.com" {
		t.Fatalf("unexpected base url %q", got)
	}
}
