package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cariantohs/mexc-data/internal/model"
)

// MaxKlinePage is the most bars the kline endpoints return per request.
const MaxKlinePage = 2000

// KlineQuery describes one bounded kline page request.
type KlineQuery struct {
	Kind     model.KlineKind
	Symbol   string
	Interval model.Interval
	Start    int64 // seconds, 0 = not set
	End      int64 // seconds, 0 = not set
}

// klinePayload is the raw parallel-array response: one array per field,
// indexed by bar position.
type klinePayload struct {
	Time   []int64           `json:"time"`
	Open   []decimal.Decimal `json:"open"`
	High   []decimal.Decimal `json:"high"`
	Low    []decimal.Decimal `json:"low"`
	Close  []decimal.Decimal `json:"close"`
	Vol    []decimal.Decimal `json:"vol"`
	Amount []decimal.Decimal `json:"amount"`
}

// DecodeError reports a malformed kline payload, such as parallel arrays of
// unequal length.
type DecodeError struct {
	Field string
	Want  int
	Got   int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed kline payload: field %q has %d entries, want %d", e.Field, e.Got, e.Want)
}

// klinePath returns the endpoint path for the requested candle series.
func klinePath(kind model.KlineKind, symbol string) string {
	switch kind {
	case model.KindIndex:
		return "/api/v1/contract/kline/index_price/" + symbol
	case model.KindFair:
		return "/api/v1/contract/kline/fair_price/" + symbol
	default:
		return "/api/v1/contract/kline/" + symbol
	}
}

// Klines fetches one page of candles. An empty or missing payload is a normal
// "no data in window" outcome and returns an empty slice, not an error.
func (c *Client) Klines(ctx context.Context, q KlineQuery) ([]model.Candle, error) {
	query := url.Values{}
	query.Set("interval", string(q.Interval))
	if q.Start > 0 {
		query.Set("start", strconv.FormatInt(q.Start, 10))
	}
	if q.End > 0 {
		query.Set("end", strconv.FormatInt(q.End, 10))
	}

	var payload klinePayload
	if err := c.get(ctx, klinePath(q.Kind, q.Symbol), query, &payload); err != nil {
		return nil, fmt.Errorf("get klines %s/%s %s: %w", q.Symbol, q.Kind, q.Interval, err)
	}

	return payload.toCandles(q.Interval)
}

// toCandles converts the parallel arrays into row-oriented candles. A missing
// field array is tolerated and becomes null values; a present array of the
// wrong length is rejected.
func (p *klinePayload) toCandles(interval model.Interval) ([]model.Candle, error) {
	n := len(p.Time)
	if n == 0 {
		return nil, nil
	}

	col := func(name string, vals []decimal.Decimal) ([]decimal.Decimal, error) {
		if vals == nil {
			return nil, nil
		}
		if len(vals) != n {
			return nil, &DecodeError{Field: name, Want: n, Got: len(vals)}
		}
		return vals, nil
	}

	fields := []struct {
		name string
		vals []decimal.Decimal
	}{
		{"open", p.Open},
		{"high", p.High},
		{"low", p.Low},
		{"close", p.Close},
		{"vol", p.Vol},
		{"amount", p.Amount},
	}

	checked := make([][]decimal.Decimal, len(fields))
	for i, f := range fields {
		vals, err := col(f.name, f.vals)
		if err != nil {
			return nil, err
		}
		checked[i] = vals
	}

	at := func(vals []decimal.Decimal, i int) decimal.NullDecimal {
		if vals == nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: vals[i], Valid: true}
	}

	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = model.Candle{
			Timestamp: p.Time[i],
			Interval:  interval,
			Open:      at(checked[0], i),
			High:      at(checked[1], i),
			Low:       at(checked[2], i),
			Close:     at(checked[3], i),
			Vol:       at(checked[4], i),
			Amount:    at(checked[5], i),
		}
	}

	return candles, nil
}
