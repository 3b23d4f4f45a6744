package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ContractDetail describes one futures contract from GET /api/v1/contract/detail.
type ContractDetail struct {
	Symbol                string          `json:"symbol"`
	DisplayName           string          `json:"displayName"`
	BaseCoin              string          `json:"baseCoin"`
	QuoteCoin             string          `json:"quoteCoin"`
	SettleCoin            string          `json:"settleCoin"`
	ContractSize          decimal.Decimal `json:"contractSize"`
	MinLeverage           int             `json:"minLeverage"`
	MaxLeverage           int             `json:"maxLeverage"`
	PriceScale            int             `json:"priceScale"`
	VolScale              int             `json:"volScale"`
	PriceUnit             decimal.Decimal `json:"priceUnit"`
	VolUnit               decimal.Decimal `json:"volUnit"`
	MinVol                decimal.Decimal `json:"minVol"`
	MaxVol                decimal.Decimal `json:"maxVol"`
	MakerFeeRate          decimal.Decimal `json:"makerFeeRate"`
	TakerFeeRate          decimal.Decimal `json:"takerFeeRate"`
	MaintenanceMarginRate decimal.Decimal `json:"maintenanceMarginRate"`
	InitialMarginRate     decimal.Decimal `json:"initialMarginRate"`
	State                 int             `json:"state"`
}

// Ticker is the 24h market snapshot from GET /api/v1/contract/ticker.
type Ticker struct {
	Symbol        string          `json:"symbol"`
	LastPrice     decimal.Decimal `json:"lastPrice"`
	Bid1          decimal.Decimal `json:"bid1"`
	Ask1          decimal.Decimal `json:"ask1"`
	Volume24      decimal.Decimal `json:"volume24"`
	Amount24      decimal.Decimal `json:"amount24"`
	HoldVol       decimal.Decimal `json:"holdVol"`
	Lower24Price  decimal.Decimal `json:"lower24Price"`
	High24Price   decimal.Decimal `json:"high24Price"`
	RiseFallRate  decimal.Decimal `json:"riseFallRate"`
	RiseFallValue decimal.Decimal `json:"riseFallValue"`
	IndexPrice    decimal.Decimal `json:"indexPrice"`
	FairPrice     decimal.Decimal `json:"fairPrice"`
	FundingRate   decimal.Decimal `json:"fundingRate"`
	Timestamp     int64           `json:"timestamp"`
}

// Deal is one public trade print from GET /api/v1/contract/deals/{symbol}.
type Deal struct {
	Price     decimal.Decimal `json:"p"`
	Volume    decimal.Decimal `json:"v"`
	Side      int             `json:"T"` // 1 = buy, 2 = sell
	OpenType  int             `json:"O"` // 1 = opens a position
	SelfTrade int             `json:"M"` // 1 = self-trade
	Timestamp int64           `json:"t"` // milliseconds
}

// Depth is an order-book snapshot from GET /api/v1/contract/depth/{symbol}.
// Each level is [price, volume, order count].
type Depth struct {
	Asks      [][]decimal.Decimal `json:"asks"`
	Bids      [][]decimal.Decimal `json:"bids"`
	Version   int64               `json:"version"`
	Timestamp int64               `json:"timestamp"`
}

// IndexPrice is the current index price from GET /api/v1/contract/index_price/{symbol}.
type IndexPrice struct {
	Symbol     string          `json:"symbol"`
	IndexPrice decimal.Decimal `json:"indexPrice"`
	Timestamp  int64           `json:"timestamp"`
}

// FairPrice is the current fair price from GET /api/v1/contract/fair_price/{symbol}.
type FairPrice struct {
	Symbol    string          `json:"symbol"`
	FairPrice decimal.Decimal `json:"fairPrice"`
	Timestamp int64           `json:"timestamp"`
}

// FundingRate is the current funding state from GET /api/v1/contract/funding_rate/{symbol}.
type FundingRate struct {
	Symbol         string          `json:"symbol"`
	FundingRate    decimal.Decimal `json:"fundingRate"`
	MaxFundingRate decimal.Decimal `json:"maxFundingRate"`
	MinFundingRate decimal.Decimal `json:"minFundingRate"`
	CollectCycle   int             `json:"collectCycle"`
	NextSettleTime int64           `json:"nextSettleTime"`
	Timestamp      int64           `json:"timestamp"`
}

// DepthCommit is one raw entry from GET /api/v1/contract/depth_commits. The
// payload shape varies, so it is preserved verbatim.
type DepthCommit = json.RawMessage
