package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetQuicksearchHomeWithEnvVar tests QUICKSEARCH_HOME env var takes precedence
func TestGetQuicksearchHomeWithEnvVar(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", customHome)

	home, err := GetQuicksearchHome()
	if err != nil {
		t.Fatalf("GetQuicksearchHome() error = %v", err)
	}

	if home != customHome {
		t.Errorf("GetQuicksearchHome() = %q, want %q", home, customHome)
	}
}

// TestGetQuicksearchHomeUserHome tests fallback to the user's home directory
func TestGetQuicksearchHomeUserHome(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", "")
	t.Setenv("HOME", userHome)

	home, err := GetQuicksearchHome()
	if err != nil {
		t.Fatalf("GetQuicksearchHome() error = %v", err)
	}

	expectedPath := filepath.Join(userHome, ".quicksearch")
	if home != expectedPath {
		t.Errorf("GetQuicksearchHome() = %q, want %q", home, expectedPath)
	}

	// Verify .quicksearch directory was created
	info, err := os.Stat(home)
	if err != nil {
		t.Fatalf("Directory not created: %q", home)
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %q", home)
	}
}

// TestGetQuicksearchHomeEnvVarPrecedence tests env var takes precedence over user home
func TestGetQuicksearchHomeEnvVarPrecedence(t *testing.T) {
	envHome := t.TempDir()
	userHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", envHome)
	t.Setenv("HOME", userHome)

	home, err := GetQuicksearchHome()
	if err != nil {
		t.Fatalf("GetQuicksearchHome() error = %v", err)
	}

	// Env var should take precedence
	if home != envHome {
		t.Errorf("GetQuicksearchHome() = %q, want %q (env var should take precedence)", home, envHome)
	}
}

// TestGetHistoryDBPath tests database path generation
func TestGetHistoryDBPath(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", customHome)

	dbPath, err := GetHistoryDBPath()
	if err != nil {
		t.Fatalf("GetHistoryDBPath() error = %v", err)
	}

	expectedPath := filepath.Join(customHome, "history", "runs.db")
	if dbPath != expectedPath {
		t.Errorf("GetHistoryDBPath() = %q, want %q", dbPath, expectedPath)
	}
}

// TestGetHistoryDir tests history directory path generation and creation
func TestGetHistoryDir(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", customHome)

	historyDir, err := GetHistoryDir()
	if err != nil {
		t.Fatalf("GetHistoryDir() error = %v", err)
	}

	expectedPath := filepath.Join(customHome, "history")
	if historyDir != expectedPath {
		t.Errorf("GetHistoryDir() = %q, want %q", historyDir, expectedPath)
	}

	// Verify directory was created
	if _, err := os.Stat(historyDir); os.IsNotExist(err) {
		t.Errorf("History directory not created: %q", historyDir)
	}
}

// TestLoadConfigFromHome tests config discovery under the quicksearch home
func TestLoadConfigFromHome(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", customHome)

	configContent := `workers: 3
log_level: error
`
	configPath := filepath.Join(customHome, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFromHome()
	if err != nil {
		t.Fatalf("LoadConfigFromHome() error = %v", err)
	}

	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
	}
}

// TestLoadConfigFromHomeMissingFile tests defaults when no config file exists
func TestLoadConfigFromHomeMissingFile(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv("QUICKSEARCH_HOME", customHome)

	cfg, err := LoadConfigFromHome()
	if err != nil {
		t.Fatalf("LoadConfigFromHome() error = %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
}
