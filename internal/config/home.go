package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetQuicksearchHome returns the quicksearch home directory
// Priority order:
//  1. QUICKSEARCH_HOME environment variable (if set)
//  2. .quicksearch under the user's home directory
//  3. .quicksearch under the current working directory (fallback)
//
// The directory is created if it doesn't exist
func GetQuicksearchHome() (string, error) {
	// Try env var first
	if home := os.Getenv("QUICKSEARCH_HOME"); home != "" {
		return home, nil
	}

	// Try the user's home directory
	if userHome, err := os.UserHomeDir(); err == nil && userHome != "" {
		qsHome := filepath.Join(userHome, ".quicksearch")
		// Ensure directory exists
		if err := os.MkdirAll(qsHome, 0755); err != nil {
			return "", fmt.Errorf("create quicksearch home directory: %w", err)
		}
		return qsHome, nil
	}

	// Fallback to current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	qsHome := filepath.Join(cwd, ".quicksearch")

	// Ensure directory exists
	if err := os.MkdirAll(qsHome, 0755); err != nil {
		return "", fmt.Errorf("create quicksearch home directory: %w", err)
	}

	return qsHome, nil
}

// GetHistoryDBPath returns the absolute path to the history database
// Always returns: $QUICKSEARCH_HOME/history/runs.db
func GetHistoryDBPath() (string, error) {
	home, err := GetQuicksearchHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "history", "runs.db"), nil
}

// GetHistoryDir returns the history directory path
func GetHistoryDir() (string, error) {
	home, err := GetQuicksearchHome()
	if err != nil {
		return "", err
	}

	historyDir := filepath.Join(home, "history")

	// Ensure directory exists
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return "", fmt.Errorf("create history directory: %w", err)
	}

	return historyDir, nil
}
