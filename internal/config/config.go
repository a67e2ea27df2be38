// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Browser BrowserConfig `mapstructure:"browser"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	Persist PersistConfig `mapstructure:"persist"`
	Control ControlConfig `mapstructure:"control"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScrapeConfig governs the query phase and the pagination loop.
type ScrapeConfig struct {
	MapsURL              string `mapstructure:"maps_url"`
	Target               int    `mapstructure:"target"`
	Concurrency          int    `mapstructure:"concurrency"`
	NavTimeoutSeconds    int    `mapstructure:"nav_timeout_seconds"`
	SearchTimeoutSeconds int    `mapstructure:"search_timeout_seconds"`
	InitialWaitSeconds   int    `mapstructure:"initial_wait_seconds"`
	SettleMillis         int    `mapstructure:"settle_ms"`
}

// BrowserConfig configures the headless rendering subsystem.
type BrowserConfig struct {
	Headless  bool   `mapstructure:"headless"`
	UserAgent string `mapstructure:"user_agent"`
}

// EnrichConfig controls the e-mail discovery pass over collected records.
type EnrichConfig struct {
	FallbackPaths          []string `mapstructure:"fallback_paths"`
	PrimaryTimeoutSeconds  int      `mapstructure:"primary_timeout_seconds"`
	FallbackTimeoutSeconds int      `mapstructure:"fallback_timeout_seconds"`
	HostRPS                float64  `mapstructure:"host_rps"`
	HostBurst              int      `mapstructure:"host_burst"`
}

// PersistConfig sets output destinations for collected records.
type PersistConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	Table       string `mapstructure:"table"`
}

// ControlConfig configures the local pause/resume HTTP surface.
type ControlConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
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
	v.SetDefault("scrape.maps_url", "https://www.google.com/maps")
	v.SetDefault("scrape.target", 0)
	v.SetDefault("scrape.concurrency", 0)
	v.SetDefault("scrape.nav_timeout_seconds", 60)
	v.SetDefault("scrape.search_timeout_seconds", 30)
	v.SetDefault("scrape.initial_wait_seconds", 10)
	v.SetDefault("scrape.settle_ms", 1500)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "lead-harvester/0.1")
	v.SetDefault("enrich.fallback_paths", []string{"/iletisim", "/tr/iletisim", "/contact", "/tr/contact"})
	v.SetDefault("enrich.primary_timeout_seconds", 20)
	v.SetDefault("enrich.fallback_timeout_seconds", 8)
	v.SetDefault("enrich.host_rps", 1.0)
	v.SetDefault("enrich.host_burst", 1)
	v.SetDefault("persist.output_dir", "Google_Maps_Data")
	v.SetDefault("persist.table", "leads")
	v.SetDefault("control.enabled", true)
	v.SetDefault("control.addr", "127.0.0.1:8844")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scrape.MapsURL == "" {
		return fmt.Errorf("scrape.maps_url must be set")
	}
	if c.Scrape.Concurrency < 0 {
		return fmt.Errorf("scrape.concurrency must be >= 0")
	}
	if c.Scrape.NavTimeoutSeconds <= 0 {
		return fmt.Errorf("scrape.nav_timeout_seconds must be > 0")
	}
	if c.Enrich.PrimaryTimeoutSeconds <= 0 || c.Enrich.FallbackTimeoutSeconds <= 0 {
		return fmt.Errorf("enrich timeouts must be > 0")
	}
	if c.Control.Enabled && c.Control.Addr == "" {
		return fmt.Errorf("control.addr must be set when control is enabled")
	}
	if c.Persist.OutputDir == "" && c.Persist.PostgresDSN == "" {
		return fmt.Errorf("at least one of persist.output_dir or persist.postgres_dsn must be set")
	}
	return nil
}

// NavTimeout returns the page navigation budget as a duration.
func (c ScrapeConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// SearchTimeout returns the wait budget for the results URL transition.
func (c ScrapeConfig) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSeconds) * time.Second
}

// InitialWait bounds how long the pagination loop waits for a first item.
func (c ScrapeConfig) InitialWait() time.Duration {
	return time.Duration(c.InitialWaitSeconds) * time.Second
}

// Settle is the pause between load-more gestures.
func (c ScrapeConfig) Settle() time.Duration {
	return time.Duration(c.SettleMillis) * time.Millisecond
}

// PrimaryTimeout returns the primary-page fetch budget.
func (c EnrichConfig) PrimaryTimeout() time.Duration {
	return time.Duration(c.PrimaryTimeoutSeconds) * time.Second
}

// FallbackTimeout returns the per-candidate contact-page fetch budget.
func (c EnrichConfig) FallbackTimeout() time.Duration {
	return time.Duration(c.FallbackTimeoutSeconds) * time.Second
}
