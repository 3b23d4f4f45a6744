// Package stream implements one live-capture session over the MEXC contract
// WebSocket feed.
//
// A session subscribes to the public channels for a single symbol (trades,
// full depth, ticker, index price, fair price, funding rate), keeps the
// connection alive with periodic pings, and routes every decoded push message
// to its channel's sink. The session runs until its configured duration
// elapses, the caller cancels, or the connection reports failure; it never
// reconnects on its own.
package stream
