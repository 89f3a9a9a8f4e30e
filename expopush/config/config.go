// Package config maps the YAML and environment configuration surface of the
// caller layer onto an expopush.Config. The client core itself never reads
// the environment; everything funnels through this package.
package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sethvargo/go-envconfig"

	"github.com/tinywideclouds/go-expo-push/expopush"
)

// envOverrides is processed with go-envconfig; unset variables leave the
// YAML-derived values untouched.
type envOverrides struct {
	URL           string `env:"EXPO_PUSH_URL"`
	ReceiptURL    string `env:"EXPO_PUSH_RECEIPT_URL"`
	AccessToken   string `env:"EXPO_ACCESS_TOKEN"`
	ChunkSize     int    `env:"EXPO_PUSH_CHUNK_SIZE"`
	GzipMode      string `env:"EXPO_PUSH_GZIP"`
	GzipThreshold int    `env:"EXPO_PUSH_GZIP_THRESHOLD"`
}

// ApplyEnvOverrides layers environment variables over cfg and applies final
// validation. The returned config is ready for expopush.New.
func ApplyEnvOverrides(ctx context.Context, cfg *expopush.Config, logger *slog.Logger) (*expopush.Config, error) {
	logger.Debug("Applying environment variable overrides...")

	var env envOverrides
	if err := envconfig.Process(ctx, &env); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}

	if env.URL != "" {
		logger.Debug("Overriding config value", "key", "EXPO_PUSH_URL", "source", "env")
		cfg.URL = env.URL
	}
	if env.ReceiptURL != "" {
		logger.Debug("Overriding config value", "key", "EXPO_PUSH_RECEIPT_URL", "source", "env")
		cfg.ReceiptURL = env.ReceiptURL
	}
	if env.AccessToken != "" {
		logger.Debug("Overriding config value", "key", "EXPO_ACCESS_TOKEN", "source", "env")
		cfg.AccessToken = env.AccessToken
	}
	if env.ChunkSize > 0 {
		logger.Debug("Overriding config value", "key", "EXPO_PUSH_CHUNK_SIZE", "source", "env")
		cfg.ChunkSize = env.ChunkSize
	}
	if env.GzipMode != "" {
		mode, err := expopush.ParseGzipMode(env.GzipMode)
		if err != nil {
			return nil, fmt.Errorf("EXPO_PUSH_GZIP: %w", err)
		}
		logger.Debug("Overriding config value", "key", "EXPO_PUSH_GZIP", "source", "env")
		cfg.Gzip.Mode = mode
	}
	if env.GzipThreshold > 0 {
		logger.Debug("Overriding config value", "key", "EXPO_PUSH_GZIP_THRESHOLD", "source", "env")
		cfg.Gzip.Threshold = env.GzipThreshold
	}

	if cfg.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk_size must be positive, got %d", cfg.ChunkSize)
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
