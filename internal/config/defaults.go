package config

import (
	"time"

	"github.com/cariantohs/mexc-data/internal/model"
)

// Default values for optional configuration fields.
const (
	DefaultBaseURL        = "https://contract.mexc.com"
	DefaultWSURL          = "wss://contract.mexc.com/edge"
	DefaultOutputDir      = "data"
	DefaultAPITimeout     = 30 * time.Second
	DefaultMaxAttempts    = 5
	DefaultRetryBackoff   = 600 * time.Millisecond
	DefaultRequestSpacing = 150 * time.Millisecond
	DefaultMaxPageSize    = 2000
	DefaultParallelism    = 1
	DefaultFundingPage    = 1000
	DefaultRunDuration    = 3 * time.Minute
	DefaultPingInterval   = 15 * time.Second
	DefaultDepthLimit     = 20
	DefaultBufferSize     = 10000
	DefaultWriteTimeout   = 5 * time.Second
)

var defaultIntervals = []model.Interval{
	model.IntervalMin1,
	model.IntervalMin5,
	model.IntervalMin15,
	model.IntervalMin30,
	model.IntervalMin60,
	model.IntervalHour4,
	model.IntervalDay1,
}

var defaultIndexFairIntervals = []model.Interval{
	model.IntervalMin1,
	model.IntervalMin5,
	model.IntervalMin60,
	model.IntervalDay1,
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxAttempts == 0 {
		c.API.MaxAttempts = DefaultMaxAttempts
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.RequestSpacing == 0 {
		c.API.RequestSpacing = DefaultRequestSpacing
	}

	// Kline defaults
	if c.Kline.Mode == "" {
		c.Kline.Mode = ModeFullHistory
	}
	if len(c.Kline.Intervals) == 0 {
		c.Kline.Intervals = defaultIntervals
	}
	if len(c.Kline.IndexFairIntervals) == 0 {
		c.Kline.IndexFairIntervals = defaultIndexFairIntervals
	}
	if c.Kline.MaxPageSize == 0 {
		c.Kline.MaxPageSize = DefaultMaxPageSize
	}
	if c.Kline.Parallelism == 0 {
		c.Kline.Parallelism = DefaultParallelism
	}

	// Funding defaults
	if c.Funding.PageSize == 0 {
		c.Funding.PageSize = DefaultFundingPage
	}

	// Stream defaults
	if c.Stream.URL == "" {
		c.Stream.URL = DefaultWSURL
	}
	if c.Stream.RunDuration == 0 {
		c.Stream.RunDuration = DefaultRunDuration
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = DefaultPingInterval
	}
	if c.Stream.DepthLimit == 0 {
		c.Stream.DepthLimit = DefaultDepthLimit
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultBufferSize
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
}
