package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return errors.New("symbol is required")
	}

	switch c.Kline.Mode {
	case ModeFullHistory:
	case ModeRange:
		if c.Kline.Start.IsZero() || c.Kline.End.IsZero() {
			return errors.New("kline.start and kline.end are required in range mode")
		}
		if !c.Kline.Start.Before(c.Kline.End) {
			return fmt.Errorf("kline.start (%s) must precede kline.end (%s)", c.Kline.Start, c.Kline.End)
		}
	default:
		return fmt.Errorf("kline.mode must be %q or %q, got %q", ModeFullHistory, ModeRange, c.Kline.Mode)
	}

	for _, iv := range c.Kline.Intervals {
		if !iv.Valid() {
			return fmt.Errorf("kline.intervals: unknown interval %q", iv)
		}
	}
	for _, iv := range c.Kline.IndexFairIntervals {
		if !iv.Valid() {
			return fmt.Errorf("kline.index_fair_intervals: unknown interval %q", iv)
		}
	}

	if c.Kline.MaxPageSize < 1 || c.Kline.MaxPageSize > DefaultMaxPageSize {
		return fmt.Errorf("kline.max_page_size must be between 1 and %d", DefaultMaxPageSize)
	}
	if c.Kline.Parallelism < 1 {
		return errors.New("kline.parallelism must be >= 1")
	}

	if c.Funding.PageSize < 1 {
		return errors.New("funding.page_size must be >= 1")
	}

	if c.API.MaxAttempts < 1 {
		return errors.New("api.max_attempts must be >= 1")
	}

	switch c.Stream.DepthLimit {
	case 5, 10, 20:
	default:
		return fmt.Errorf("stream.depth_limit must be 5, 10 or 20, got %d", c.Stream.DepthLimit)
	}
	if c.Stream.BufferSize < 1 {
		return errors.New("stream.buffer_size must be >= 1")
	}

	return nil
}
