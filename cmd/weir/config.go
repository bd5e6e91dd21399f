package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// serverConfig is the YAML configuration consumed by `weir serve`.
type serverConfig struct {
	Addr      string `yaml:"addr"`
	Flow      string `yaml:"flow"`
	RedisAddr string `yaml:"redis_addr"`
	Metrics   bool   `yaml:"metrics"`
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Addr:    ":8080",
		Flow:    ".weir/flow.json",
		Metrics: true,
	}
}

// loadServerConfig reads the YAML file when present; a missing path keeps
// the defaults so `weir serve` works with zero configuration.
func loadServerConfig(path string) (serverConfig, error) {
	cfg := defaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
