package stream

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Channel tags on inbound push messages.
const (
	ChannelDeal        = "push.deal"
	ChannelDepth       = "push.depth"
	ChannelTicker      = "push.ticker"
	ChannelIndexPrice  = "push.index.price"
	ChannelFairPrice   = "push.fair.price"
	ChannelFundingRate = "push.funding.rate"
	ChannelPong        = "pong"
)

// command is one outbound frame: a subscription or a heartbeat.
type command struct {
	Method string `json:"method"`
	Param  any    `json:"param,omitempty"`
}

// symbolParam subscribes a plain per-symbol channel.
type symbolParam struct {
	Symbol string `json:"symbol"`
}

// depthParam subscribes the full-depth channel with a level limit.
type depthParam struct {
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

// PushMessage is the inbound frame envelope: a channel tag, server timestamp,
// symbol, and a channel-specific payload.
type PushMessage struct {
	Channel string          `json:"channel"`
	Ts      int64           `json:"ts"` // server time, milliseconds
	Symbol  string          `json:"symbol"`
	Data    json.RawMessage `json:"data"`
}

// DealData is the push.deal payload: one trade print.
type DealData struct {
	Price     decimal.Decimal `json:"p"`
	Volume    decimal.Decimal `json:"v"`
	Side      int             `json:"T"` // 1 = buy, 2 = sell
	OpenType  int             `json:"O"`
	SelfTrade int             `json:"M"`
	Timestamp int64           `json:"t"` // milliseconds
}

// DepthData is the push.depth payload: a full book refresh.
// Each level is [price, volume, order count].
type DepthData struct {
	Asks    [][]decimal.Decimal `json:"asks"`
	Bids    [][]decimal.Decimal `json:"bids"`
	Version int64               `json:"version"`
}

// TickerData is the push.ticker payload.
type TickerData struct {
	LastPrice   decimal.Decimal `json:"lastPrice"`
	Bid1        decimal.Decimal `json:"bid1"`
	Ask1        decimal.Decimal `json:"ask1"`
	Volume24    decimal.Decimal `json:"volume24"`
	HoldVol     decimal.Decimal `json:"holdVol"`
	IndexPrice  decimal.Decimal `json:"indexPrice"`
	FairPrice   decimal.Decimal `json:"fairPrice"`
	FundingRate decimal.Decimal `json:"fundingRate"`
}

// PriceData is the payload for push.index.price and push.fair.price.
type PriceData struct {
	Price decimal.Decimal `json:"price"`
}

// RateData is the push.funding.rate payload.
type RateData struct {
	Rate decimal.Decimal `json:"rate"`
}

// SinkSet receives decoded push messages, one method per channel. Every
// method is invoked from the session's read loop only, so implementations
// need no internal locking. Append errors are logged by the session and do
// not terminate it.
type SinkSet interface {
	AppendDeal(ts int64, symbol string, d DealData) error
	AppendDepth(ts int64, symbol string, d DepthData) error
	AppendTicker(ts int64, symbol string, t TickerData) error
	AppendIndexPrice(ts int64, symbol string, p PriceData) error
	AppendFairPrice(ts int64, symbol string, p PriceData) error
	AppendFundingRate(ts int64, symbol string, r RateData) error
}
