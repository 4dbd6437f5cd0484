// Package config loads tracker credentials and tuning knobs from the
// environment. A .env file is honored when present; the shell that embeds
// the core typically provides one per practice.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the environment configuration for the recall core. The two
// actioned sources are mutually exclusive per run; Notion wins when both
// are configured.
type Config struct {
	NotionToken      string        `envconfig:"NOTION_TOKEN"`
	NotionDatabaseID string        `envconfig:"NOTION_DATABASE_ID"`
	SheetURL         string        `envconfig:"SHEET_URL"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	CacheSize        int           `envconfig:"CACHE_SIZE" default:"16"`
}

// Load reads the configuration from the environment, after loading a
// .env file if one exists. Missing credentials are not an error: the
// pipeline degrades to running without an actioned source.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("dmrecall", &c); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	return c, nil
}

// HasNotion reports whether the Notion tracker is configured.
func (c Config) HasNotion() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// HasSheet reports whether a spreadsheet tracker is configured.
func (c Config) HasSheet() bool {
	return c.SheetURL != ""
}
