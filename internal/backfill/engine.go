package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cariantohs/mexc-data/internal/api"
	"github.com/cariantohs/mexc-data/internal/model"
)

// Fetcher fetches one bounded kline page. *api.Client satisfies it.
type Fetcher interface {
	Klines(ctx context.Context, q api.KlineQuery) ([]model.Candle, error)
}

// Request identifies one candle series to backfill.
type Request struct {
	Kind     model.KlineKind
	Symbol   string
	Interval model.Interval
}

// Config holds engine settings.
type Config struct {
	MaxPageSize int // bars per page the API can return (default 2000)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxPageSize: api.MaxKlinePage,
	}
}

// Engine drives a Fetcher over repeated bounded pages to reconstruct a
// complete candle series. Each call owns its cursor state; engines are safe
// to use from multiple goroutines as long as the Fetcher is.
type Engine struct {
	cfg     Config
	fetcher Fetcher
	logger  *slog.Logger

	// now is stubbed in tests.
	now func() time.Time
}

// New creates a backfill engine.
func New(cfg Config, fetcher Fetcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = api.MaxKlinePage
	}
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Range fetches all candles in [start, end] (epoch seconds, inclusive) by
// stepping a window of MaxPageSize bars forward from start.
func (e *Engine) Range(ctx context.Context, req Request, start, end int64) ([]model.Candle, error) {
	step := req.Interval.Seconds() * int64(e.cfg.MaxPageSize)
	if step <= 0 {
		return nil, fmt.Errorf("backfill %s %s: unknown interval", req.Symbol, req.Interval)
	}

	var all []model.Candle
	for windowStart := start; windowStart <= end; {
		windowEnd := windowStart + step - 1
		if windowEnd > end {
			windowEnd = end
		}

		page, err := e.fetcher.Klines(ctx, api.KlineQuery{
			Kind:     req.Kind,
			Symbol:   req.Symbol,
			Interval: req.Interval,
			Start:    windowStart,
			End:      windowEnd,
		})
		if err != nil {
			return nil, fmt.Errorf("backfill %s %s [%d,%d]: %w", req.Symbol, req.Interval, windowStart, windowEnd, err)
		}

		all = append(all, page...)
		e.logger.Debug("kline window fetched",
			"kind", req.Kind,
			"symbol", req.Symbol,
			"interval", req.Interval,
			"window_start", windowStart,
			"window_end", windowEnd,
			"rows", len(page),
		)

		windowStart = windowEnd + 1
	}

	return dedupeSort(all), nil
}

// FullHistory walks backward from now, paging by trailing end cursor, until
// the exchange has no earlier data.
//
// Three stop conditions, checked in order each iteration:
//   - an empty page means the cursor walked past the start of history
//   - a short page (fewer than MaxPageSize bars) is the API's way of saying
//     "this is everything that's left"; it is kept and the walk ends
//   - an earliest timestamp that failed to move strictly backward means the
//     API is repeating itself for a degenerate cursor; stop rather than loop
func (e *Engine) FullHistory(ctx context.Context, req Request) ([]model.Candle, error) {
	end := e.now().UTC().Unix()

	var all []model.Candle
	var prevEarliest int64

	for iteration := 0; ; iteration++ {
		page, err := e.fetcher.Klines(ctx, api.KlineQuery{
			Kind:     req.Kind,
			Symbol:   req.Symbol,
			Interval: req.Interval,
			End:      end,
		})
		if err != nil {
			return nil, fmt.Errorf("backfill %s %s end=%d: %w", req.Symbol, req.Interval, end, err)
		}

		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		earliest := earliestTimestamp(page)

		e.logger.Debug("kline batch fetched",
			"kind", req.Kind,
			"symbol", req.Symbol,
			"interval", req.Interval,
			"rows", len(page),
			"earliest", time.Unix(earliest, 0).UTC(),
		)

		if len(page) < e.cfg.MaxPageSize {
			break
		}
		if iteration > 0 && earliest >= prevEarliest {
			e.logger.Warn("earliest timestamp did not advance, stopping",
				"symbol", req.Symbol,
				"interval", req.Interval,
				"earliest", earliest,
				"previous", prevEarliest,
			)
			break
		}

		prevEarliest = earliest
		end = earliest - 1
	}

	return dedupeSort(all), nil
}

// earliestTimestamp returns the smallest bar timestamp in a non-empty page.
// Pages usually arrive ordered, but nothing downstream depends on that.
func earliestTimestamp(page []model.Candle) int64 {
	earliest := page[0].Timestamp
	for _, c := range page[1:] {
		if c.Timestamp < earliest {
			earliest = c.Timestamp
		}
	}
	return earliest
}

// dedupeSort removes duplicate (timestamp, interval) keys, keeping the
// last-fetched copy, and returns the survivors in ascending timestamp order.
func dedupeSort(candles []model.Candle) []model.Candle {
	if len(candles) == 0 {
		return nil
	}

	byKey := make(map[model.CandleKey]model.Candle, len(candles))
	for _, c := range candles {
		byKey[c.Key()] = c
	}

	out := make([]model.Candle, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
