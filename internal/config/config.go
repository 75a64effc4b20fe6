// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Headless   HeadlessConfig   `mapstructure:"headless"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Dispatch   DispatchConfig   `mapstructure:"dispatch"`
	PubSub     PubSubConfig     `mapstructure:"pubsub"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// StoreConfig selects and configures the record-store backend.
type StoreConfig struct {
	Provider         string `mapstructure:"provider"`
	BaseURL          string `mapstructure:"base_url"`
	Token            string `mapstructure:"token"`
	APIVersion       string `mapstructure:"api_version"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	SourceDatabaseID string `mapstructure:"source_database_id"`
	RecordDatabaseID string `mapstructure:"record_database_id"`
}

// FetchConfig governs listing-page retrieval.
type FetchConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	AcceptLanguage string `mapstructure:"accept_language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

// HeadlessConfig configures the headless rendering fallback.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
}

// TranscriptConfig governs transcript retrieval.
type TranscriptConfig struct {
	BaseURL        string   `mapstructure:"base_url"`
	Languages      []string `mapstructure:"languages"`
	MaxRetries     int      `mapstructure:"max_retries"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// SchedulerConfig controls the recurring-job scheduler.
type SchedulerConfig struct {
	Timezone       string `mapstructure:"timezone"`
	TickTimeoutMin int    `mapstructure:"tick_timeout_minutes"`
}

// DispatchConfig bounds per-tick fan-out.
type DispatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// PubSubConfig holds metadata for record-created event publishing.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
}

// ArchiveConfig selects where retrieved transcripts are archived.
type ArchiveConfig struct {
	Provider  string `mapstructure:"provider"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	BaseDir   string `mapstructure:"base_dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHANNELWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.provider", "memory")
	v.SetDefault("store.timeout_seconds", 30)
	v.SetDefault("fetch.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("fetch.accept_language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("transcript.languages", []string{"ko", "en"})
	v.SetDefault("transcript.max_retries", 3)
	v.SetDefault("transcript.timeout_seconds", 30)
	v.SetDefault("scheduler.timezone", "Asia/Seoul")
	v.SetDefault("scheduler.tick_timeout_minutes", 0)
	v.SetDefault("dispatch.concurrency", 1)
	v.SetDefault("pubsub.enabled", false)
	v.SetDefault("archive.provider", "none")
	v.SetDefault("archive.base_dir", "archive")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.Store.Provider {
	case "memory":
	case "notion":
		if c.Store.Token == "" {
			return fmt.Errorf("store.token must be set for the notion provider")
		}
		if c.Store.SourceDatabaseID == "" || c.Store.RecordDatabaseID == "" {
			return fmt.Errorf("store.source_database_id and store.record_database_id must be set for the notion provider")
		}
	default:
		return fmt.Errorf("store.provider must be memory or notion, got %q", c.Store.Provider)
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.MaxRetries <= 0 {
		return fmt.Errorf("fetch.max_retries must be > 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Transcript.MaxRetries <= 0 {
		return fmt.Errorf("transcript.max_retries must be > 0")
	}
	if c.Dispatch.Concurrency <= 0 {
		return fmt.Errorf("dispatch.concurrency must be > 0")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}
	switch c.Archive.Provider {
	case "none", "memory":
	case "local":
		if c.Archive.BaseDir == "" {
			return fmt.Errorf("archive.base_dir must be set for the local provider")
		}
	case "gcs":
		if c.Archive.GCSBucket == "" {
			return fmt.Errorf("archive.gcs_bucket must be set for the gcs provider")
		}
	default:
		return fmt.Errorf("archive.provider must be none, memory, local or gcs, got %q", c.Archive.Provider)
	}
	if c.PubSub.Enabled && c.PubSub.ProjectID == "" {
		return fmt.Errorf("pubsub.project_id must be set when pubsub is enabled")
	}
	return nil
}

// FetchTimeout converts the fetch timeout to a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// TranscriptTimeout converts the transcript timeout to a duration.
func (c Config) TranscriptTimeout() time.Duration {
	return time.Duration(c.Transcript.TimeoutSeconds) * time.Second
}

// TickTimeout converts the per-tick bound to a duration. Zero disables it.
func (c Config) TickTimeout() time.Duration {
	return time.Duration(c.Scheduler.TickTimeoutMin) * time.Minute
}
