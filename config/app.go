package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig carries process-level settings for the reference host CLI.
type AppConfig struct {
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string  `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int     `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	LogMaxBackups int     `envconfig:"LOG_MAX_BACKUPS"`
	MetricsAddr   string  `envconfig:"METRICS_ADDR"`
	StartEquity   float64 `envconfig:"START_EQUITY" default:"10000"`
}

// LoadApp reads AppConfig from GORSI_* environment variables. A .env file in
// the working directory is loaded first when present; a malformed one is an
// error.
func LoadApp() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg AppConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
