// Package model defines shared data types for MEXC contract market data.
//
// Conventions:
//   - Candle timestamps: int64 seconds since Unix epoch (as returned by the kline API)
//   - Funding settle times: int64 milliseconds since Unix epoch
//   - Prices and volumes: decimals preserved exactly as the API reports them
package model
