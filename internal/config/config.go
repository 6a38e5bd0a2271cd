package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port             string `yaml:"port"`
	DatabaseURL      string `yaml:"database_url"`
	SpawnIntervalMs  int    `yaml:"spawn_interval_ms"`
	RenderIntervalMs int    `yaml:"render_interval_ms"`
	RemoveDelayMs    int    `yaml:"remove_delay_ms"`
	CanvasWidth      int    `yaml:"canvas_width"`
	CanvasHeight     int    `yaml:"canvas_height"`
	HistorySize      int    `yaml:"history_size"`
	SessionTTLMins   int    `yaml:"session_ttl_minutes"`
}

func Defaults() Config {
	return Config{
		Port:             "8080",
		SpawnIntervalMs:  1000,
		RenderIntervalMs: 16,
		RemoveDelayMs:    200,
		CanvasWidth:      800,
		CanvasHeight:     500,
		HistorySize:      10,
		SessionTTLMins:   60,
	}
}

// Load applies, in order: defaults, the YAML file named by CONFIG_FILE (if
// any), then environment variables. A missing file is not an error.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SpawnIntervalMs = getEnvInt("SPAWN_INTERVAL_MS", cfg.SpawnIntervalMs)
	cfg.RenderIntervalMs = getEnvInt("RENDER_INTERVAL_MS", cfg.RenderIntervalMs)
	cfg.RemoveDelayMs = getEnvInt("REMOVE_DELAY_MS", cfg.RemoveDelayMs)
	cfg.CanvasWidth = getEnvInt("CANVAS_WIDTH", cfg.CanvasWidth)
	cfg.CanvasHeight = getEnvInt("CANVAS_HEIGHT", cfg.CanvasHeight)
	cfg.HistorySize = getEnvInt("HISTORY_SIZE", cfg.HistorySize)
	cfg.SessionTTLMins = getEnvInt("SESSION_TTL_MINUTES", cfg.SessionTTLMins)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	fileCfg := *cfg
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	*cfg = fileCfg
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
