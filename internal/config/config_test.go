// ABOUTME: Tests for focus configuration management.
// ABOUTME: Covers load, save, defaults, goal resolution, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/focus/internal/models"
)

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/focus-test"}
	if got := cfg.GetDataDir(); got != "/tmp/focus-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/focus-test")
	}
}

func TestDailyGoalDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.DailyGoal(); got != models.DefaultDailyGoal {
		t.Errorf("DailyGoal() = %+v, want default", got)
	}
}

func TestDailyGoalConfigured(t *testing.T) {
	cfg := &Config{DailyGoalSessions: 3, DailyGoalMinutes: 60}
	want := models.DailyGoal{MinSessions: 3, MinMinutes: 60}
	if got := cfg.DailyGoal(); got != want {
		t.Errorf("DailyGoal() = %+v, want %+v", got, want)
	}
}

func TestDailyGoalMinutesOnly(t *testing.T) {
	cfg := &Config{DailyGoalMinutes: 50}
	want := models.DailyGoal{MinSessions: 0, MinMinutes: 50}
	if got := cfg.DailyGoal(); got != want {
		t.Errorf("DailyGoal() = %+v, want %+v", got, want)
	}
}

func TestDailyGoalNegativeTreatedAsUnset(t *testing.T) {
	cfg := &Config{DailyGoalSessions: -2, DailyGoalMinutes: -10}
	if got := cfg.DailyGoal(); got != models.DefaultDailyGoal {
		t.Errorf("DailyGoal() = %+v, want default for negative config", got)
	}
}

func TestExpandPathEmpty(t *testing.T) {
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want %q", got, "")
	}
}

func TestExpandPathAbsolute(t *testing.T) {
	if got := ExpandPath("/tmp/foo"); got != "/tmp/foo" {
		t.Errorf("ExpandPath(\"/tmp/foo\") = %q, want %q", got, "/tmp/foo")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~")
	if got != home {
		t.Errorf("ExpandPath(\"~\") = %q, want %q", got, home)
	}
}

func TestExpandPathTildeSlash(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~/data/focus")
	want := filepath.Join(home, "data/focus")
	if got != want {
		t.Errorf("ExpandPath(\"~/data/focus\") = %q, want %q", got, want)
	}
}

func TestExpandPathRelative(t *testing.T) {
	if got := ExpandPath("data/focus"); got != "data/focus" {
		t.Errorf("ExpandPath(\"data/focus\") = %q, want %q", got, "data/focus")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/focus-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "focus-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should return defaults
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
	if cfg.DailyGoalSessions != 0 || cfg.DailyGoalMinutes != 0 {
		t.Errorf("Expected zero goal fields, got %d/%d", cfg.DailyGoalSessions, cfg.DailyGoalMinutes)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg := &Config{
		DataDir:           "/tmp/focus-data",
		DailyGoalSessions: 2,
		DailyGoalMinutes:  45,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.DataDir != "/tmp/focus-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/focus-data")
	}
	if loaded.DailyGoalSessions != 2 || loaded.DailyGoalMinutes != 45 {
		t.Errorf("Goal mismatch: got %d/%d, want 2/45", loaded.DailyGoalSessions, loaded.DailyGoalMinutes)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// Point to a non-existent subdirectory
	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg := &Config{DataDir: "/tmp/focus-data"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "focus")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	configDir := filepath.Join(tmpDir, "focus")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "focus", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{DataDir: tmpDir}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	dbPath := filepath.Join(tmpDir, "focus.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected focus.db to be created")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	cfg := &Config{}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Empty config should result in "{}" since fields have omitempty
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
