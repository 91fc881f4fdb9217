// Package config defines service configuration and its defaults.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RevealDelayMS is the pause between starting a battle and revealing it.
	RevealDelayMS int `koanf:"reveal_delay_ms"`

	// JitterMin and JitterMax bound the random factor applied to each total.
	JitterMin float64 `koanf:"jitter_min"`
	JitterMax float64 `koanf:"jitter_max"`

	// RandomSeed fixes the battle random source. Zero seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// CatalogPath replaces the embedded content catalog with a YAML file.
	CatalogPath string `koanf:"catalog_path"`

	// QueueSize bounds the newsletter signup queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of signup workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many signup addresses are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// NewsletterDB is a SQLite file for subscribers. Empty keeps them in memory.
	NewsletterDB string `koanf:"newsletter_db"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		RevealDelayMS: 2000,
		JitterMin:     0.9,
		JitterMax:     1.1,
		QueueSize:     1024,
		WorkerCount:   runtime.NumCPU(),
		DedupeSize:    50_000,
	}
}

// RevealDelay returns RevealDelayMS as a duration.
func (c *Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RevealDelayMS < 0:
		return fmt.Errorf("%w: reveal_delay_ms must not be negative", ErrInvalidConfig)
	case c.JitterMin <= 0 || c.JitterMax <= c.JitterMin:
		return fmt.Errorf("%w: jitter range [%g, %g) is empty", ErrInvalidConfig, c.JitterMin, c.JitterMax)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
