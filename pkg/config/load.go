// Package config loads application configuration from the environment, with
// an optional .env file for development.
package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. When envFile is non-empty
// it is loaded first; a missing .env is not an error.
func Load(envFile string) (*App, error) {
	logger := slog.Default()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logger.Warn("no env file found, using system environment", "path", envFile)
		} else {
			logger.Info("environment loaded from file", "path", envFile)
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}
