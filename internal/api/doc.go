// Package api provides the client for the MEXC contract (futures) public
// market-data REST API.
//
// Base URL: https://contract.mexc.com
//
// Responses arrive either bare or wrapped in a {"success": ..., "data": ...}
// envelope; the client unwraps the envelope transparently. All requests are
// spaced by a minimum interval to stay inside the published market-endpoint
// rate limits, and retried a bounded number of times on transport failure.
package api
