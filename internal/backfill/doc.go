// Package backfill reconstructs complete candle histories from the bounded
// kline pages the MEXC contract API serves.
//
// Two modes are supported: a forward walk over a fixed [start, end] range,
// and a backward walk from now until the exchange runs out of earlier data.
// Both accumulate overlapping pages, then deduplicate by (timestamp, interval)
// and sort ascending, so the returned series is gapless and strictly ordered
// no matter how the pages overlapped.
//
// The backward walk carries a termination guard: if an iteration fails to
// move the earliest-seen timestamp strictly backward, the walk stops instead
// of re-requesting the same page forever.
package backfill
