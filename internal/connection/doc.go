// Package connection owns the raw WebSocket link to the MEXC contract edge
// endpoint (wss://contract.mexc.com/edge).
//
// The client exposes received frames on a buffered channel with a local
// receive timestamp, serializes writes, and reports transport failures on a
// separate error channel. Protocol concerns (subscriptions, heartbeats,
// message routing) live one layer up in package stream.
package connection
