package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbarranco/clipmill/internal/constants"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected default port %s, got %s", constants.DefaultPort, cfg.Port)
	}
	if cfg.DBPath != constants.DefaultDBPath {
		t.Errorf("Expected default db path %s, got %s", constants.DefaultDBPath, cfg.DBPath)
	}
	if cfg.ItemsPerRun != constants.DefaultItemsPerRun {
		t.Errorf("Expected default items per run %d, got %d", constants.DefaultItemsPerRun, cfg.ItemsPerRun)
	}
	if len(cfg.TTSProviderPriority) == 0 {
		t.Error("Expected a default TTS provider priority list")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ITEMS_PER_RUN", "5")
	t.Setenv("TTS_PROVIDER_PRIORITY", "elevenlabs, deepgram")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.ItemsPerRun != 5 {
		t.Errorf("Expected items per run 5, got %d", cfg.ItemsPerRun)
	}
	if len(cfg.TTSProviderPriority) != 2 || cfg.TTSProviderPriority[0] != "elevenlabs" {
		t.Errorf("Unexpected TTS priority: %v", cfg.TTSProviderPriority)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipmill.yaml")
	data := []byte("port: \"7070\"\ntarget_visuals: 4\nimage_style: cinematic\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("CLIPMILL_CONFIG", path)

	cfg := Load()

	if cfg.Port != "7070" {
		t.Errorf("Expected port 7070 from file, got %s", cfg.Port)
	}
	if cfg.TargetVisuals != 4 {
		t.Errorf("Expected target visuals 4 from file, got %d", cfg.TargetVisuals)
	}
	if cfg.ImageStyle != "cinematic" {
		t.Errorf("Expected image style cinematic from file, got %s", cfg.ImageStyle)
	}

	// Env wins over file
	t.Setenv("PORT", "7071")
	cfg = Load()
	if cfg.Port != "7071" {
		t.Errorf("Expected env port 7071 to override file, got %s", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Port:                "8080",
		DBPath:              "test.db",
		AssetsDir:           "assets",
		LogLevel:            "info",
		LogFormat:           "text",
		ItemsPerRun:         2,
		TargetVisuals:       8,
		TTSProviderPriority: []string{"deepgram", "elevenlabs"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Port = "abc" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty assets dir", func(c *Config) { c.AssetsDir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero items per run", func(c *Config) { c.ItemsPerRun = 0 }},
		{"zero target visuals", func(c *Config) { c.TargetVisuals = 0 }},
		{"unknown tts provider", func(c *Config) { c.TTSProviderPriority = []string{"espeak"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			cfg.TTSProviderPriority = append([]string(nil), valid.TTSProviderPriority...)
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
