package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cariantohs/mexc-data/internal/api"
	"github.com/cariantohs/mexc-data/internal/model"
)

// fakeFetcher serves pages from a script keyed by call order, recording every
// query it saw.
type fakeFetcher struct {
	queries []api.KlineQuery
	serve   func(call int, q api.KlineQuery) ([]model.Candle, error)
}

func (f *fakeFetcher) Klines(ctx context.Context, q api.KlineQuery) ([]model.Candle, error) {
	call := len(f.queries)
	f.queries = append(f.queries, q)
	return f.serve(call, q)
}

func candle(ts int64, interval model.Interval, close float64) model.Candle {
	d := decimal.NewFromFloat(close)
	nd := decimal.NullDecimal{Decimal: d, Valid: true}
	return model.Candle{
		Timestamp: ts,
		Interval:  interval,
		Open:      nd,
		High:      nd,
		Low:       nd,
		Close:     nd,
		Vol:       nd,
		Amount:    nd,
	}
}

// candlePage builds n consecutive bars ending at end (inclusive).
func candlePage(end int64, interval model.Interval, n int) []model.Candle {
	sec := interval.Seconds()
	page := make([]model.Candle, 0, n)
	for ts := end - int64(n-1)*sec; ts <= end; ts += sec {
		page = append(page, candle(ts, interval, 1))
	}
	return page
}

func newTestEngine(f Fetcher, maxPage int, now int64) *Engine {
	e := New(Config{MaxPageSize: maxPage}, f, nil)
	e.now = func() time.Time { return time.Unix(now, 0).UTC() }
	return e
}

func TestFullHistory_StopsOnShortPage(t *testing.T) {
	const maxPage = 4
	interval := model.IntervalMin1
	now := int64(10000)

	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			switch call {
			case 0:
				return candlePage(q.End, interval, maxPage), nil
			case 1:
				// Short page: everything that's left.
				return candlePage(q.End, interval, 2), nil
			default:
				t.Fatalf("unexpected request %d after short page", call)
				return nil, nil
			}
		},
	}

	engine := newTestEngine(fetcher, maxPage, now)
	got, err := engine.FullHistory(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: interval,
	})
	if err != nil {
		t.Fatalf("FullHistory failed: %v", err)
	}

	if len(fetcher.queries) != 2 {
		t.Errorf("requests = %d, want 2", len(fetcher.queries))
	}
	if len(got) != maxPage+2 {
		t.Errorf("candles = %d, want %d", len(got), maxPage+2)
	}

	// Cursor steps to earliest-1 between pages.
	firstEarliest := now - int64(maxPage-1)*interval.Seconds()
	if fetcher.queries[1].End != firstEarliest-1 {
		t.Errorf("second request end = %d, want %d", fetcher.queries[1].End, firstEarliest-1)
	}
}

func TestFullHistory_StopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			return nil, nil
		},
	}

	engine := newTestEngine(fetcher, 4, 10000)
	got, err := engine.FullHistory(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: model.IntervalMin1,
	})
	if err != nil {
		t.Fatalf("FullHistory failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("candles = %d, want 0", len(got))
	}
	if len(fetcher.queries) != 1 {
		t.Errorf("requests = %d, want 1", len(fetcher.queries))
	}
}

func TestFullHistory_TerminationGuard(t *testing.T) {
	// A degenerate upstream that returns the same full page forever must not
	// loop: the guard fires as soon as the earliest timestamp stops moving.
	const maxPage = 4
	interval := model.IntervalMin1

	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			if call > 10 {
				t.Fatal("paginator did not terminate")
			}
			return candlePage(10000, interval, maxPage), nil
		},
	}

	engine := newTestEngine(fetcher, maxPage, 10000)
	got, err := engine.FullHistory(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: interval,
	})
	if err != nil {
		t.Fatalf("FullHistory failed: %v", err)
	}

	if len(fetcher.queries) != 2 {
		t.Errorf("requests = %d, want 2 (initial + one repeat)", len(fetcher.queries))
	}
	// The repeated page deduplicates away.
	if len(got) != maxPage {
		t.Errorf("candles = %d, want %d", len(got), maxPage)
	}
}

func TestFullHistory_Idempotent(t *testing.T) {
	const maxPage = 4
	interval := model.IntervalMin5
	now := int64(100000)

	serve := func(call int, q api.KlineQuery) ([]model.Candle, error) {
		// Two full pages of history, then empty.
		historyStart := now - int64(2*maxPage-1)*interval.Seconds()
		if q.End < historyStart {
			return nil, nil
		}
		page := candlePage(q.End, interval, maxPage)
		// Clip to the listing start.
		var out []model.Candle
		for _, c := range page {
			if c.Timestamp >= historyStart {
				out = append(out, c)
			}
		}
		return out, nil
	}

	run := func() []model.Candle {
		fetcher := &fakeFetcher{serve: serve}
		engine := newTestEngine(fetcher, maxPage, now)
		got, err := engine.FullHistory(context.Background(), Request{
			Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: interval,
		})
		if err != nil {
			t.Fatalf("FullHistory failed: %v", err)
		}
		return got
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	merged := dedupeSort(append(append([]model.Candle{}, first...), second...))
	if len(merged) != len(first) {
		t.Errorf("merged runs = %d candles, want %d", len(merged), len(first))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Errorf("key mismatch at %d: %v vs %v", i, first[i].Key(), second[i].Key())
		}
	}
}

func TestFullHistory_Ordering(t *testing.T) {
	const maxPage = 3
	interval := model.IntervalMin1
	now := int64(10000)

	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			switch call {
			case 0:
				return candlePage(q.End, interval, maxPage), nil
			case 1:
				// Overlaps the previous page by one bar.
				return candlePage(q.End+interval.Seconds(), interval, maxPage-1), nil
			default:
				return nil, nil
			}
		},
	}

	engine := newTestEngine(fetcher, maxPage, now)
	got, err := engine.FullHistory(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: interval,
	})
	if err != nil {
		t.Fatalf("FullHistory failed: %v", err)
	}

	seen := map[model.CandleKey]bool{}
	for i, c := range got {
		if i > 0 && got[i-1].Timestamp >= c.Timestamp {
			t.Errorf("not strictly ascending at %d: %d then %d", i, got[i-1].Timestamp, c.Timestamp)
		}
		if seen[c.Key()] {
			t.Errorf("duplicate key %v", c.Key())
		}
		seen[c.Key()] = true
	}
}

func TestRange_WindowStepping(t *testing.T) {
	const maxPage = 2
	interval := model.IntervalMin1 // 60s bars, 120s window

	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			return []model.Candle{candle(q.Start, interval, 1)}, nil
		},
	}

	engine := newTestEngine(fetcher, maxPage, 0)
	_, err := engine.Range(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: interval,
	}, 0, 299)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}

	want := []struct{ start, end int64 }{
		{0, 119},
		{120, 239},
		{240, 299},
	}
	if len(fetcher.queries) != len(want) {
		t.Fatalf("requests = %d, want %d", len(fetcher.queries), len(want))
	}
	for i, w := range want {
		q := fetcher.queries[i]
		if q.Start != w.start || q.End != w.end {
			t.Errorf("window %d = [%d,%d], want [%d,%d]", i, q.Start, q.End, w.start, w.end)
		}
	}
}

func TestRange_LastSeenWinsOnDuplicateKey(t *testing.T) {
	interval := model.IntervalMin1

	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			// Both windows return a bar with the same timestamp, different close.
			return []model.Candle{candle(60, interval, float64(call+1))}, nil
		},
	}

	engine := newTestEngine(fetcher, 2, 0)
	got, err := engine.Range(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: interval,
	}, 0, 239)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("candles = %d, want 1", len(got))
	}
	if !got[0].Close.Decimal.Equal(decimal.NewFromInt(2)) {
		t.Errorf("close = %s, want 2 (last-seen wins)", got[0].Close.Decimal)
	}
}

func TestBackfill_FetchErrorIsFatalForRun(t *testing.T) {
	wantErr := errors.New("boom")
	fetcher := &fakeFetcher{
		serve: func(call int, q api.KlineQuery) ([]model.Candle, error) {
			return nil, wantErr
		},
	}

	engine := newTestEngine(fetcher, 4, 10000)

	if _, err := engine.FullHistory(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: model.IntervalMin1,
	}); !errors.Is(err, wantErr) {
		t.Errorf("FullHistory error = %v, want wrapped %v", err, wantErr)
	}

	if _, err := engine.Range(context.Background(), Request{
		Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: model.IntervalMin1,
	}, 0, 100); !errors.Is(err, wantErr) {
		t.Errorf("Range error = %v, want wrapped %v", err, wantErr)
	}
}
