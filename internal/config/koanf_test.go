// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestEnvTransformFunc verifies environment variable to koanf path mapping
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"GOOGLE_PLACES_API_KEY", "places.api_key"},
		{"PLACES_PAGE_DELAY", "places.page_delay"},
		{"PLACES_MAX_PAGES", "places.max_pages"},
		{"SELECTION_ROTATION_WINDOW", "selection.rotation_window"},
		{"PREFERENCES_BACKEND", "preferences.backend"},
		{"REDIS_ADDR", "preferences.redis_addr"},
		{"SESSIONS_IDLE_TIMEOUT", "sessions.idle_timeout"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "api.cors_origins"},
		{"DISABLE_RATE_LIMIT", "api.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// chdirTemp switches to a fresh temp dir so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestFindConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile("config.yaml", []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("GOOGLE_PLACES_API_KEY", "test-key")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PLACES_PAGE_DELAY", "2s")
	t.Setenv("PREFERENCES_BACKEND", "memory")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SELECTION_SEED", "7")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Places.APIKey != "test-key" {
		t.Errorf("Places.APIKey = %q, want test-key", cfg.Places.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Places.PageDelay != 2*time.Second {
		t.Errorf("Places.PageDelay = %v, want 2s", cfg.Places.PageDelay)
	}
	if cfg.Preferences.Backend != "memory" {
		t.Errorf("Preferences.Backend = %q, want memory", cfg.Preferences.Backend)
	}
	wantOrigins := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.API.CORSOrigins, wantOrigins) {
		t.Errorf("API.CORSOrigins = %v, want %v", cfg.API.CORSOrigins, wantOrigins)
	}
	if cfg.Selection.Seed != 7 {
		t.Errorf("Selection.Seed = %d, want 7", cfg.Selection.Seed)
	}
	// Untouched defaults survive
	if cfg.Places.MaxPages != 3 {
		t.Errorf("Places.MaxPages = %d, want 3", cfg.Places.MaxPages)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yamlContent := `
server:
  port: 7000
places:
  language: en
  target_count: 10
preferences:
  backend: memory
logging:
  level: debug
`
	path := filepath.Join(dir, "wwte.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100 (env over file)", cfg.Server.Port)
	}
	if cfg.Places.Language != "en" {
		t.Errorf("Places.Language = %q, want en", cfg.Places.Language)
	}
	if cfg.Places.TargetCount != 10 {
		t.Errorf("Places.TargetCount = %d, want 10", cfg.Places.TargetCount)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PREFERENCES_BACKEND", "sqlite")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() = nil error, want validation failure")
	}
}
