package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/petervflocke/quicksearch/internal/models"
)

// HistoryConfig represents search history configuration
type HistoryConfig struct {
	// Enabled enables recording of search runs
	Enabled bool `yaml:"enabled"`

	// DBPath is the history database directory. Relative paths resolve
	// under the quicksearch home directory.
	DBPath string `yaml:"db_path"`

	// MaxRuns is the maximum number of runs to keep (0 = unlimited)
	MaxRuns int `yaml:"max_runs"`
}

// Config represents quicksearch configuration options
type Config struct {
	// Workers is the number of concurrent scan workers (0 = number of CPUs)
	Workers int `yaml:"workers"`

	// ContextLines is the number of context lines captured around each match
	ContextLines int `yaml:"context_lines"`

	// ExcludeDirs lists directory names skipped during traversal
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// IncludeHidden includes hidden files and directories in the search
	IncludeHidden bool `yaml:"include_hidden"`

	// IncludeBinary scans files the binary classifier would skip
	IncludeBinary bool `yaml:"include_binary"`

	// SearchPDF extracts and searches text from PDF files
	SearchPDF bool `yaml:"search_pdf"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// History contains search history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Workers:       0, // Number of CPUs
		ContextLines:  0,
		ExcludeDirs:   append([]string(nil), models.DefaultExcludeDirs...),
		IncludeHidden: false,
		IncludeBinary: false,
		SearchPDF:     false,
		LogLevel:      "info",
		LogDir:        ".quicksearch/logs",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "history",
			MaxRuns: 200,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.Workers != 0 {
		cfg.Workers = yamlCfg.Workers
	}
	if yamlCfg.ContextLines != 0 {
		cfg.ContextLines = yamlCfg.ContextLines
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	// IncludeHidden is explicitly set if present in YAML
	if yamlCfg.IncludeHidden {
		cfg.IncludeHidden = yamlCfg.IncludeHidden
	}
	// IncludeBinary is explicitly set if present in YAML
	if yamlCfg.IncludeBinary {
		cfg.IncludeBinary = yamlCfg.IncludeBinary
	}
	// SearchPDF is explicitly set if present in YAML
	if yamlCfg.SearchPDF {
		cfg.SearchPDF = yamlCfg.SearchPDF
	}

	// Merge exclude_dirs and history - need to check if the sections were provided at all
	// We create a temporary unmarshal to detect which keys exist
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		// An explicit exclude_dirs key replaces the defaults, even when empty
		if _, exists := rawMap["exclude_dirs"]; exists {
			cfg.ExcludeDirs = yamlCfg.ExcludeDirs
		}

		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			// History section exists in YAML, merge it
			history := yamlCfg.History

			// For nested struct, we need to check which fields were actually set
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = history.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				// Explicitly set db_path, even if empty string
				cfg.History.DBPath = history.DBPath
			}
			if _, exists := historyMap["max_runs"]; exists {
				cfg.History.MaxRuns = history.MaxRuns
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromHome loads configuration from config.yaml in the quicksearch
// home directory. If the home cannot be resolved or the file doesn't exist,
// returns default configuration without error.
func LoadConfigFromHome() (*Config, error) {
	home, err := GetQuicksearchHome()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(filepath.Join(home, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(workers *int, contextLines *int, includeHidden *bool, includeBinary *bool, searchPDF *bool) {
	if workers != nil {
		c.Workers = *workers
	}
	if contextLines != nil {
		c.ContextLines = *contextLines
	}
	if includeHidden != nil {
		c.IncludeHidden = *includeHidden
	}
	if includeBinary != nil {
		c.IncludeBinary = *includeBinary
	}
	if searchPDF != nil {
		c.SearchPDF = *searchPDF
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	// Validate workers
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	// Validate context_lines
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines must be >= 0, got %d", c.ContextLines)
	}

	// Validate log_level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	// Validate history configuration
	if c.History.Enabled {
		if c.History.DBPath == "" {
			return fmt.Errorf("history.db_path cannot be empty when history is enabled")
		}
		if c.History.MaxRuns < 0 {
			return fmt.Errorf("history.max_runs must be >= 0, got %d", c.History.MaxRuns)
		}
	}

	return nil
}
