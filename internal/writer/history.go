package writer

import (
	"strconv"
	"time"

	"github.com/cariantohs/mexc-data/internal/model"
)

var klineHeader = []string{"t", "t_iso", "interval", "open", "high", "low", "close", "vol", "amount"}

var fundingHeader = []string{"symbol", "fundingRate", "settleTime", "settleTime_iso"}

// WriteCandles appends a backfilled candle series to the file at path,
// creating it with a header if needed.
func WriteCandles(path string, candles []model.Candle) error {
	a, err := NewAppender(path, klineHeader)
	if err != nil {
		return err
	}

	for _, c := range candles {
		record := []string{
			strconv.FormatInt(c.Timestamp, 10),
			c.Time().Format(time.RFC3339),
			string(c.Interval),
			nullDec(c.Open),
			nullDec(c.High),
			nullDec(c.Low),
			nullDec(c.Close),
			nullDec(c.Vol),
			nullDec(c.Amount),
		}
		if err := a.Append(record); err != nil {
			a.Close()
			return err
		}
	}

	return a.Close()
}

// WriteFundingHistory appends funding settlements to the file at path,
// creating it with a header if needed.
func WriteFundingHistory(path string, records []model.FundingRecord) error {
	a, err := NewAppender(path, fundingHeader)
	if err != nil {
		return err
	}

	for _, r := range records {
		record := []string{
			r.Symbol,
			r.Rate.String(),
			strconv.FormatInt(r.SettleTime, 10),
			r.SettleAt().Format(time.RFC3339),
		}
		if err := a.Append(record); err != nil {
			a.Close()
			return err
		}
	}

	return a.Close()
}
