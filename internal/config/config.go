// ABOUTME: Focus configuration: data directory and daily goal settings.
// ABOUTME: Loads JSON from the XDG config dir and acts as the storage factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/focus/internal/models"
	"github.com/harperreed/focus/internal/storage"
)

// Config stores focus tool configuration.
type Config struct {
	// DataDir is the root directory for data storage; focus.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/focus.
	DataDir string `json:"data_dir,omitempty"`

	// DailyGoalSessions is the completed-session minimum for a day to count
	// toward the streak. Defaults to 1.
	DailyGoalSessions int `json:"daily_goal_sessions,omitempty"`

	// DailyGoalMinutes is the focused-minute minimum for a day to count
	// toward the streak. Defaults to 0 (no minute requirement).
	DailyGoalMinutes int `json:"daily_goal_minutes,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DailyGoal returns the configured goal, falling back to the default when
// neither minimum is set. Negative values are treated as unset.
func (c *Config) DailyGoal() models.DailyGoal {
	sessions := c.DailyGoalSessions
	minutes := c.DailyGoalMinutes
	if sessions < 0 {
		sessions = 0
	}
	if minutes < 0 {
		minutes = 0
	}
	if sessions == 0 && minutes == 0 {
		return models.DefaultDailyGoal
	}
	return models.DailyGoal{MinSessions: sessions, MinMinutes: minutes}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the session store under the configured data directory.
func (c *Config) OpenStorage() (storage.Repository, error) {
	dbPath := filepath.Join(c.GetDataDir(), "focus.db")
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return store, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "focus", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
