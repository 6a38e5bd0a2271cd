package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "DATABASE_URL", "SPAWN_INTERVAL_MS", "RENDER_INTERVAL_MS",
		"REMOVE_DELAY_MS", "CANVAS_WIDTH", "CANVAS_HEIGHT", "HISTORY_SIZE", "SESSION_TTL_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg != Defaults() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, Defaults())
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.SpawnIntervalMs != 1000 {
		t.Errorf("SpawnIntervalMs = %d, want 1000", cfg.SpawnIntervalMs)
	}
	if cfg.RenderIntervalMs != 16 {
		t.Errorf("RenderIntervalMs = %d, want 16", cfg.RenderIntervalMs)
	}
	if cfg.RemoveDelayMs != 200 {
		t.Errorf("RemoveDelayMs = %d, want 200", cfg.RemoveDelayMs)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/aimtrainer")
	t.Setenv("SPAWN_INTERVAL_MS", "750")
	t.Setenv("CANVAS_WIDTH", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.DatabaseURL != "postgres://localhost/aimtrainer" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "postgres://localhost/aimtrainer")
	}
	if cfg.SpawnIntervalMs != 750 {
		t.Errorf("SpawnIntervalMs = %d, want 750", cfg.SpawnIntervalMs)
	}
	if cfg.CanvasWidth != 1024 {
		t.Errorf("CanvasWidth = %d, want 1024", cfg.CanvasWidth)
	}
}

func TestLoad_InvalidInts(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPAWN_INTERVAL_MS", "abc")
	t.Setenv("HISTORY_SIZE", "-4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SpawnIntervalMs != 1000 {
		t.Errorf("SpawnIntervalMs = %d, want %d (fallback)", cfg.SpawnIntervalMs, 1000)
	}
	if cfg.HistorySize != 10 {
		t.Errorf("HistorySize = %d, want %d (fallback)", cfg.HistorySize, 10)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "aimtrainer.yaml")
	content := "port: \"9090\"\nspawn_interval_ms: 500\ncanvas_height: 600\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SPAWN_INTERVAL_MS", "400")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.CanvasHeight != 600 {
		t.Errorf("CanvasHeight = %d, want 600", cfg.CanvasHeight)
	}
	// environment wins over the file
	if cfg.SpawnIntervalMs != 400 {
		t.Errorf("SpawnIntervalMs = %d, want 400", cfg.SpawnIntervalMs)
	}
	// untouched keys keep their defaults
	if cfg.RenderIntervalMs != 16 {
		t.Errorf("RenderIntervalMs = %d, want 16", cfg.RenderIntervalMs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on malformed yaml")
	}
}
