package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Interval identifies a kline bar size using MEXC's contract API naming.
type Interval string

const (
	IntervalMin1   Interval = "Min1"
	IntervalMin5   Interval = "Min5"
	IntervalMin15  Interval = "Min15"
	IntervalMin30  Interval = "Min30"
	IntervalMin60  Interval = "Min60"
	IntervalHour4  Interval = "Hour4"
	IntervalHour8  Interval = "Hour8"
	IntervalDay1   Interval = "Day1"
	IntervalWeek1  Interval = "Week1"
	IntervalMonth1 Interval = "Month1"
)

var intervalSeconds = map[Interval]int64{
	IntervalMin1:   60,
	IntervalMin5:   300,
	IntervalMin15:  900,
	IntervalMin30:  1800,
	IntervalMin60:  3600,
	IntervalHour4:  14400,
	IntervalHour8:  28800,
	IntervalDay1:   86400,
	IntervalWeek1:  604800,
	IntervalMonth1: 2592000,
}

// Seconds returns the bar duration in seconds, or 0 for an unknown interval.
func (i Interval) Seconds() int64 {
	return intervalSeconds[i]
}

// Duration returns the bar duration, or 0 for an unknown interval.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Seconds()) * time.Second
}

// Valid reports whether the interval is one MEXC accepts.
func (i Interval) Valid() bool {
	_, ok := intervalSeconds[i]
	return ok
}

// ParseInterval validates a string as an Interval.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if !i.Valid() {
		return "", fmt.Errorf("unknown interval %q", s)
	}
	return i, nil
}

// KlineKind selects which of the three candle series an endpoint serves.
// All three share the same payload shape and pagination behavior.
type KlineKind string

const (
	KindLast  KlineKind = "last"        // traded-price klines
	KindIndex KlineKind = "index_price" // index-price klines
	KindFair  KlineKind = "fair_price"  // fair-price klines
)

// Candle is one OHLCV bar. Fields the API omitted are left invalid
// (NullDecimal with Valid=false) rather than zeroed.
type Candle struct {
	Timestamp int64 // bar open, seconds since epoch
	Interval  Interval
	Open      decimal.NullDecimal
	High      decimal.NullDecimal
	Low       decimal.NullDecimal
	Close     decimal.NullDecimal
	Vol       decimal.NullDecimal // contract volume
	Amount    decimal.NullDecimal // quote turnover
}

// CandleKey uniquely identifies a candle within a symbol's history.
type CandleKey struct {
	Timestamp int64
	Interval  Interval
}

// Key returns the candle's identity for deduplication.
func (c Candle) Key() CandleKey {
	return CandleKey{Timestamp: c.Timestamp, Interval: c.Interval}
}

// Time returns the bar open time in UTC.
func (c Candle) Time() time.Time {
	return time.Unix(c.Timestamp, 0).UTC()
}

// FundingRecord is one historical funding settlement.
type FundingRecord struct {
	Symbol     string
	Rate       decimal.Decimal
	SettleTime int64 // milliseconds since epoch
}

// SettleAt returns the settlement time in UTC.
func (f FundingRecord) SettleAt() time.Time {
	return time.UnixMilli(f.SettleTime).UTC()
}
