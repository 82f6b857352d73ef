// Package config provides application configuration loaded from viper.
// Values come from the config file, environment variables, or defaults,
// in that order of increasing precedence for environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/aiwatch/internal/logger"
)

// Default configuration values.
const (
	DefaultSourcesFile      = "config/sources.yml"
	DefaultHTTPAddr         = ":8080"
	DefaultCrawlSchedule    = "0 */6 * * *"
	DefaultEnrichSchedule   = "30 */1 * * *"
	DefaultDigestSchedule   = "15 0 * * *"
	DefaultEnrichBatchSize  = 50
	DefaultTrendTopKeywords = 20
)

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Validate validates the database configuration.
func (d *Database) Validate() error {
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.DBName == "" {
		return errors.New("database name is required")
	}
	return nil
}

// API holds the read-only HTTP server configuration.
type API struct {
	Addr string `mapstructure:"addr"`
}

// Scheduler holds cron schedules for the periodic pipeline.
type Scheduler struct {
	CrawlSchedule  string `mapstructure:"crawl_schedule"`
	EnrichSchedule string `mapstructure:"enrich_schedule"`
	DigestSchedule string `mapstructure:"digest_schedule"`
}

// Enrichment holds enrichment pass configuration.
type Enrichment struct {
	// BatchSize is the maximum number of unprocessed articles fetched
	// per pass.
	BatchSize int `mapstructure:"batch_size"`
}

// Config is the root application configuration.
type Config struct {
	// SourcesFile is the path to the per-source registry file.
	SourcesFile string        `mapstructure:"sources_file"`
	Database    Database      `mapstructure:"database"`
	Logger      logger.Config `mapstructure:"logger"`
	API         API           `mapstructure:"api"`
	Scheduler   Scheduler     `mapstructure:"scheduler"`
	Enrichment  Enrichment    `mapstructure:"enrichment"`
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sources_file", DefaultSourcesFile)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "aiwatch")
	v.SetDefault("database.dbname", "aiwatch")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("api.addr", DefaultHTTPAddr)
	v.SetDefault("scheduler.crawl_schedule", DefaultCrawlSchedule)
	v.SetDefault("scheduler.enrich_schedule", DefaultEnrichSchedule)
	v.SetDefault("scheduler.digest_schedule", DefaultDigestSchedule)
	v.SetDefault("enrichment.batch_size", DefaultEnrichBatchSize)
}

// Load unmarshals the full configuration from the given viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
