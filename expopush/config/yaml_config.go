package config

import (
	"fmt"
	"log/slog"

	"github.com/tinywideclouds/go-expo-push/expopush"
)

type YamlGzipConfig struct {
	Mode      string `yaml:"mode"`
	Threshold int    `yaml:"threshold"`
}

// YamlConfig is the structure that mirrors the raw config file.
type YamlConfig struct {
	URL         string         `yaml:"url"`
	ReceiptURL  string         `yaml:"receipt_url"`
	AccessToken string         `yaml:"access_token"`
	ChunkSize   int            `yaml:"chunk_size"`
	Gzip        YamlGzipConfig `yaml:"gzip"`
}

// FromYaml converts the raw YAML structure into a clean client config.
// Fields left empty in the file keep the client defaults.
func FromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*expopush.Config, error) {
	logger.Debug("Mapping YAML config to client config")

	cfg := &expopush.Config{
		URL:         baseCfg.URL,
		ReceiptURL:  baseCfg.ReceiptURL,
		AccessToken: baseCfg.AccessToken,
		ChunkSize:   baseCfg.ChunkSize,
	}

	if baseCfg.Gzip.Mode != "" {
		mode, err := expopush.ParseGzipMode(baseCfg.Gzip.Mode)
		if err != nil {
			return nil, fmt.Errorf("gzip.mode: %w", err)
		}
		cfg.Gzip = expopush.GzipPolicy{Mode: mode, Threshold: baseCfg.Gzip.Threshold}
	}

	logger.Debug("YAML config mapping complete",
		"url", cfg.URL,
		"receipt_url", cfg.ReceiptURL,
		"chunk_size", cfg.ChunkSize,
	)
	return cfg, nil
}
