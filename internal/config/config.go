// Package config loads and validates the downloader/recorder configuration
// from YAML, with ${ENV} expansion and defaults for every optional field.
package config

import (
	"time"

	"github.com/cariantohs/mexc-data/internal/model"
)

// Backfill modes.
const (
	ModeFullHistory = "full_history" // walk backward from now to first listing
	ModeRange       = "range"        // fixed [start, end] window
)

// Config is the root configuration.
type Config struct {
	Symbol    string `yaml:"symbol"`
	OutputDir string `yaml:"output_dir"`

	API     APIConfig     `yaml:"api"`
	Kline   KlineConfig   `yaml:"kline"`
	Funding FundingConfig `yaml:"funding"`
	Stream  StreamConfig  `yaml:"stream"`
}

// APIConfig holds REST client settings.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	RequestSpacing time.Duration `yaml:"request_spacing"`
}

// KlineConfig holds backfill settings.
type KlineConfig struct {
	Mode               string           `yaml:"mode"` // full_history or range
	Start              time.Time        `yaml:"start"`
	End                time.Time        `yaml:"end"`
	Intervals          []model.Interval `yaml:"intervals"`
	IndexFairIntervals []model.Interval `yaml:"index_fair_intervals"`
	MaxPageSize        int              `yaml:"max_page_size"`
	Parallelism        int              `yaml:"parallelism"`
}

// FundingConfig holds funding-history settings.
type FundingConfig struct {
	PageSize int `yaml:"page_size"`
}

// StreamConfig holds live-capture settings.
type StreamConfig struct {
	Enable       bool          `yaml:"enable"`
	URL          string        `yaml:"url"`
	RunDuration  time.Duration `yaml:"run_duration"`
	PingInterval time.Duration `yaml:"ping_interval"`
	DepthLimit   int           `yaml:"depth_limit"`
	BufferSize   int           `yaml:"buffer_size"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}
