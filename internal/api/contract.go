package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ServerTime returns the exchange server time in milliseconds.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	var ts int64
	if err := c.get(ctx, "/api/v1/contract/ping", nil, &ts); err != nil {
		return 0, fmt.Errorf("get server time: %w", err)
	}
	return ts, nil
}

// ContractDetail fetches contract metadata. An empty symbol returns every
// listed contract.
func (c *Client) ContractDetail(ctx context.Context, symbol string) ([]ContractDetail, error) {
	query := url.Values{}
	if symbol != "" {
		query.Set("symbol", symbol)
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/api/v1/contract/detail", query, &raw); err != nil {
		return nil, fmt.Errorf("get contract detail: %w", err)
	}

	// A single-symbol request may come back as one object rather than a list.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single ContractDetail
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("unmarshal contract detail: %w", err)
		}
		return []ContractDetail{single}, nil
	}

	var details []ContractDetail
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("unmarshal contract detail: %w", err)
	}
	return details, nil
}

// Ticker fetches the 24h snapshot for a symbol.
func (c *Client) Ticker(ctx context.Context, symbol string) (*Ticker, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var t Ticker
	if err := c.get(ctx, "/api/v1/contract/ticker", query, &t); err != nil {
		return nil, fmt.Errorf("get ticker %s: %w", symbol, err)
	}
	return &t, nil
}

// Deals fetches up to limit recent trade prints for a symbol.
func (c *Client) Deals(ctx context.Context, symbol string, limit int) ([]Deal, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var deals []Deal
	if err := c.get(ctx, "/api/v1/contract/deals/"+symbol, query, &deals); err != nil {
		return nil, fmt.Errorf("get deals %s: %w", symbol, err)
	}
	return deals, nil
}

// Depth fetches an order-book snapshot for a symbol.
func (c *Client) Depth(ctx context.Context, symbol string, limit int) (*Depth, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var d Depth
	if err := c.get(ctx, "/api/v1/contract/depth/"+symbol, query, &d); err != nil {
		return nil, fmt.Errorf("get depth %s: %w", symbol, err)
	}
	return &d, nil
}

// DepthCommits fetches the latest n order-book change records.
func (c *Client) DepthCommits(ctx context.Context, symbol string, n int) ([]DepthCommit, error) {
	var commits []DepthCommit
	path := fmt.Sprintf("/api/v1/contract/depth_commits/%s/%d", symbol, n)
	if err := c.get(ctx, path, nil, &commits); err != nil {
		return nil, fmt.Errorf("get depth commits %s: %w", symbol, err)
	}
	return commits, nil
}

// IndexPrice fetches the current index price for a symbol.
func (c *Client) IndexPrice(ctx context.Context, symbol string) (*IndexPrice, error) {
	var p IndexPrice
	if err := c.get(ctx, "/api/v1/contract/index_price/"+symbol, nil, &p); err != nil {
		return nil, fmt.Errorf("get index price %s: %w", symbol, err)
	}
	return &p, nil
}

// FairPrice fetches the current fair price for a symbol.
func (c *Client) FairPrice(ctx context.Context, symbol string) (*FairPrice, error) {
	var p FairPrice
	if err := c.get(ctx, "/api/v1/contract/fair_price/"+symbol, nil, &p); err != nil {
		return nil, fmt.Errorf("get fair price %s: %w", symbol, err)
	}
	return &p, nil
}

// FundingRate fetches the current funding state for a symbol.
func (c *Client) FundingRate(ctx context.Context, symbol string) (*FundingRate, error) {
	var r FundingRate
	if err := c.get(ctx, "/api/v1/contract/funding_rate/"+symbol, nil, &r); err != nil {
		return nil, fmt.Errorf("get funding rate %s: %w", symbol, err)
	}
	return &r, nil
}
