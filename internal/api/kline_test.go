package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cariantohs/mexc-data/internal/model"
)

func decs(vals ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestToCandles(t *testing.T) {
	t.Run("row conversion", func(t *testing.T) {
		p := &klinePayload{
			Time:   []int64{60, 120},
			Open:   decs(1.0, 2.0),
			High:   decs(1.5, 2.5),
			Low:    decs(0.5, 1.5),
			Close:  decs(1.2, 2.2),
			Vol:    decs(100, 200),
			Amount: decs(120, 440),
		}

		candles, err := p.toCandles(model.IntervalMin1)
		if err != nil {
			t.Fatalf("toCandles failed: %v", err)
		}
		if len(candles) != 2 {
			t.Fatalf("candles = %d, want 2", len(candles))
		}

		c := candles[1]
		if c.Timestamp != 120 {
			t.Errorf("Timestamp = %d, want 120", c.Timestamp)
		}
		if c.Interval != model.IntervalMin1 {
			t.Errorf("Interval = %s, want Min1", c.Interval)
		}
		if !c.Close.Valid || !c.Close.Decimal.Equal(decimal.NewFromFloat(2.2)) {
			t.Errorf("Close = %v, want 2.2", c.Close)
		}
	})

	t.Run("missing field becomes null", func(t *testing.T) {
		p := &klinePayload{
			Time:  []int64{60},
			Open:  decs(1.0),
			High:  decs(1.5),
			Low:   decs(0.5),
			Close: decs(1.2),
			// vol and amount absent
		}

		candles, err := p.toCandles(model.IntervalMin1)
		if err != nil {
			t.Fatalf("toCandles failed: %v", err)
		}
		if candles[0].Vol.Valid {
			t.Error("Vol should be null when the field is missing")
		}
		if candles[0].Amount.Valid {
			t.Error("Amount should be null when the field is missing")
		}
		if !candles[0].Open.Valid {
			t.Error("Open should be present")
		}
	})

	t.Run("length mismatch is rejected", func(t *testing.T) {
		p := &klinePayload{
			Time: []int64{60, 120},
			Open: decs(1.0), // one short
		}

		_, err := p.toCandles(model.IntervalMin1)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("error = %v, want DecodeError", err)
		}
		if decodeErr.Field != "open" || decodeErr.Want != 2 || decodeErr.Got != 1 {
			t.Errorf("DecodeError = %+v", decodeErr)
		}
	})

	t.Run("empty payload is not an error", func(t *testing.T) {
		p := &klinePayload{}
		candles, err := p.toCandles(model.IntervalMin1)
		if err != nil {
			t.Fatalf("toCandles failed: %v", err)
		}
		if candles != nil {
			t.Errorf("candles = %v, want nil", candles)
		}
	})
}

func TestKlines(t *testing.T) {
	t.Run("paths and query per kind", func(t *testing.T) {
		tests := []struct {
			kind model.KlineKind
			path string
		}{
			{model.KindLast, "/api/v1/contract/kline/XAUT_USDT"},
			{model.KindIndex, "/api/v1/contract/kline/index_price/XAUT_USDT"},
			{model.KindFair, "/api/v1/contract/kline/fair_price/XAUT_USDT"},
		}

		for _, tt := range tests {
			t.Run(string(tt.kind), func(t *testing.T) {
				var gotPath, gotQuery string
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotPath = r.URL.Path
					gotQuery = r.URL.RawQuery
					fmt.Fprint(w, `{"success":true,"data":{"time":[60],"open":[1],"high":[1],"low":[1],"close":[1],"vol":[1],"amount":[1]}}`)
				}))
				defer srv.Close()

				c := NewClient(srv.URL, WithSpacing(0), WithRetries(1, time.Millisecond))
				candles, err := c.Klines(context.Background(), KlineQuery{
					Kind:     tt.kind,
					Symbol:   "XAUT_USDT",
					Interval: model.IntervalMin1,
					Start:    100,
					End:      200,
				})
				if err != nil {
					t.Fatalf("Klines failed: %v", err)
				}
				if len(candles) != 1 {
					t.Errorf("candles = %d, want 1", len(candles))
				}
				if gotPath != tt.path {
					t.Errorf("path = %q, want %q", gotPath, tt.path)
				}
				if gotQuery != "end=200&interval=Min1&start=100" {
					t.Errorf("query = %q", gotQuery)
				}
			})
		}
	})

	t.Run("empty window returns no candles", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"time":[]}}`)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, WithSpacing(0))
		candles, err := c.Klines(context.Background(), KlineQuery{
			Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: model.IntervalMin1,
		})
		if err != nil {
			t.Fatalf("Klines failed: %v", err)
		}
		if len(candles) != 0 {
			t.Errorf("candles = %d, want 0", len(candles))
		}
	})

	t.Run("omits unset bounds", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			fmt.Fprint(w, `{"success":true,"data":{"time":[]}}`)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, WithSpacing(0))
		if _, err := c.Klines(context.Background(), KlineQuery{
			Kind: model.KindLast, Symbol: "XAUT_USDT", Interval: model.IntervalMin5, End: 999,
		}); err != nil {
			t.Fatalf("Klines failed: %v", err)
		}
		if gotQuery != "end=999&interval=Min5" {
			t.Errorf("query = %q, want end+interval only", gotQuery)
		}
	})
}
