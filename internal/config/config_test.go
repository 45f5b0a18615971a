// Package config_test provides tests for configuration loading.
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atlas-desktop/projection-backend/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Expected default port 8090, got %d", cfg.Server.Port)
	}
	if cfg.Cache.ProjectionTTL != 24*time.Hour {
		t.Errorf("Expected 24h projection TTL, got %v", cfg.Cache.ProjectionTTL)
	}
	if cfg.Cache.ParameterTTL != 7*24*time.Hour {
		t.Errorf("Expected 7d parameter TTL, got %v", cfg.Cache.ParameterTTL)
	}
	if cfg.MarketData.LookbackYears != 10 {
		t.Errorf("Expected 10y lookback, got %d", cfg.MarketData.LookbackYears)
	}
	if cfg.Engine.Simulations != 10000 {
		t.Errorf("Expected 10000 simulations, got %d", cfg.Engine.Simulations)
	}
	if cfg.Engine.MaxHorizon != 10 {
		t.Errorf("Expected max horizon 10, got %d", cfg.Engine.MaxHorizon)
	}
}

func TestFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9001\ncache:\n  path: /tmp/test-cache.json\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("Expected port 9001 from file, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Path != "/tmp/test-cache.json" {
		t.Errorf("Expected cache path override, got %q", cfg.Cache.Path)
	}
	// Untouched keys keep their defaults
	if cfg.MarketData.LookbackYears != 10 {
		t.Errorf("Expected default lookback, got %d", cfg.MarketData.LookbackYears)
	}
}

func TestMissingNamedFileIsError(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for explicitly named missing file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PROJECTION_SERVER_PORT", "7777")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Expected port 7777 from environment, got %d", cfg.Server.Port)
	}
}
