package writer

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"github.com/cariantohs/mexc-data/internal/stream"
)

// Stream capture file names, one per channel.
const (
	dealFile    = "stream_deal.csv"
	depthFile   = "stream_depth_full.csv"
	tickerFile  = "stream_ticker.csv"
	indexFile   = "stream_index_price.csv"
	fairFile    = "stream_fair_price.csv"
	fundingFile = "stream_funding_rate.csv"
)

// StreamWriter owns one append-only CSV per push channel and implements
// stream.SinkSet. The channels never share a file, so no coordination is
// needed between them.
type StreamWriter struct {
	depthLimit int

	deal    *Appender
	depth   *Appender
	ticker  *Appender
	index   *Appender
	fair    *Appender
	funding *Appender
}

// NewStreamWriter opens (or reopens) all per-channel capture files under dir.
func NewStreamWriter(dir string, depthLimit int) (*StreamWriter, error) {
	w := &StreamWriter{depthLimit: depthLimit}

	open := func(name string, header []string) (*Appender, error) {
		return NewAppender(filepath.Join(dir, name), header)
	}

	var err error
	if w.deal, err = open(dealFile, []string{"ts", "symbol", "p", "v", "T", "O", "M", "t"}); err != nil {
		return nil, err
	}
	if w.depth, err = open(depthFile, []string{"ts", "symbol", "limit", "version", "asks_json", "bids_json"}); err != nil {
		w.Close()
		return nil, err
	}
	if w.ticker, err = open(tickerFile, []string{"ts", "symbol", "lastPrice", "bid1", "ask1", "volume24", "holdVol", "indexPrice", "fairPrice", "fundingRate"}); err != nil {
		w.Close()
		return nil, err
	}
	if w.index, err = open(indexFile, []string{"ts", "symbol", "price"}); err != nil {
		w.Close()
		return nil, err
	}
	if w.fair, err = open(fairFile, []string{"ts", "symbol", "price"}); err != nil {
		w.Close()
		return nil, err
	}
	if w.funding, err = open(fundingFile, []string{"ts", "symbol", "rate"}); err != nil {
		w.Close()
		return nil, err
	}

	return w, nil
}

// Files returns the paths of every capture file.
func (w *StreamWriter) Files() []string {
	var paths []string
	for _, a := range []*Appender{w.deal, w.depth, w.ticker, w.index, w.fair, w.funding} {
		if a != nil {
			paths = append(paths, a.Path())
		}
	}
	return paths
}

// Close closes every open capture file.
func (w *StreamWriter) Close() error {
	var first error
	for _, a := range []*Appender{w.deal, w.depth, w.ticker, w.index, w.fair, w.funding} {
		if a == nil {
			continue
		}
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (w *StreamWriter) AppendDeal(ts int64, symbol string, d stream.DealData) error {
	return w.deal.Append([]string{
		strconv.FormatInt(ts, 10),
		symbol,
		d.Price.String(),
		d.Volume.String(),
		strconv.Itoa(d.Side),
		strconv.Itoa(d.OpenType),
		strconv.Itoa(d.SelfTrade),
		strconv.FormatInt(d.Timestamp, 10),
	})
}

func (w *StreamWriter) AppendDepth(ts int64, symbol string, d stream.DepthData) error {
	asks, err := json.Marshal(d.Asks)
	if err != nil {
		return err
	}
	bids, err := json.Marshal(d.Bids)
	if err != nil {
		return err
	}
	return w.depth.Append([]string{
		strconv.FormatInt(ts, 10),
		symbol,
		strconv.Itoa(w.depthLimit),
		strconv.FormatInt(d.Version, 10),
		string(asks),
		string(bids),
	})
}

func (w *StreamWriter) AppendTicker(ts int64, symbol string, t stream.TickerData) error {
	return w.ticker.Append([]string{
		strconv.FormatInt(ts, 10),
		symbol,
		t.LastPrice.String(),
		t.Bid1.String(),
		t.Ask1.String(),
		t.Volume24.String(),
		t.HoldVol.String(),
		t.IndexPrice.String(),
		t.FairPrice.String(),
		t.FundingRate.String(),
	})
}

func (w *StreamWriter) AppendIndexPrice(ts int64, symbol string, p stream.PriceData) error {
	return w.index.Append([]string{strconv.FormatInt(ts, 10), symbol, p.Price.String()})
}

func (w *StreamWriter) AppendFairPrice(ts int64, symbol string, p stream.PriceData) error {
	return w.fair.Append([]string{strconv.FormatInt(ts, 10), symbol, p.Price.String()})
}

func (w *StreamWriter) AppendFundingRate(ts int64, symbol string, r stream.RateData) error {
	return w.funding.Append([]string{strconv.FormatInt(ts, 10), symbol, r.Rate.String()})
}
