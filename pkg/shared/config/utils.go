package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// SetThen selects the first value if set, otherwise the default.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// GetHome resolves the tool's home folder: configured value, then the
// DGS_HOME environment variable, then ~/.dgs.
func GetHome(cfg *Config) string {
	if cfg != nil && cfg.Dgs.HomeFolder != "" {
		return cfg.Dgs.HomeFolder
	}
	if env := os.Getenv("DGS_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		panic("unable to get home folder")
	}
	return filepath.Join(home, ".dgs")
}

// GetProjectsFolder is where fetched repositories are checked out.
func GetProjectsFolder(cfg *Config) string {
	if cfg != nil && cfg.Dgs.ProjectsFolder != "" {
		return cfg.Dgs.ProjectsFolder
	}
	return filepath.Join(GetHome(cfg), "projects")
}

// GetResultsFolder is where exported CSV tables land.
func GetResultsFolder(cfg *Config) string {
	if cfg != nil && cfg.Dgs.ResultsFolder != "" {
		return cfg.Dgs.ResultsFolder
	}
	return filepath.Join(GetHome(cfg), "results")
}

// GetTempFolder is scratch space for single-file downloads and caches.
func GetTempFolder(cfg *Config) string {
	if cfg != nil && cfg.Dgs.TempFolder != "" {
		return cfg.Dgs.TempFolder
	}
	return filepath.Join(GetHome(cfg), "tmp")
}

// ValidateConfig checks the directives that carry constraints.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration object is nil")
	}
	if cfg.HTTPClient.RetryCount < 0 || cfg.HTTPClient.RetryCount > 20 {
		return fmt.Errorf("http_client: retry_count must be between 0 and 20: %d", cfg.HTTPClient.RetryCount)
	}
	if cfg.GitClient.Depth < 0 {
		return fmt.Errorf("git_client: depth cannot be negative: %d", cfg.GitClient.Depth)
	}
	if cfg.Survey.Jobs < 0 {
		return fmt.Errorf("survey: jobs cannot be negative: %d", cfg.Survey.Jobs)
	}
	return nil
}
