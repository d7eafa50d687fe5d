package geckoterminal

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// ohlcvResponse is the envelope of the pool OHLCV endpoint. Each row is
// [timestamp_seconds, open, high, low, close, volume]; values arrive as
// numbers or numeric strings.
type ohlcvResponse struct {
	Data struct {
		Attributes struct {
			OHLCVList [][]json.RawMessage `json:"ohlcv_list"`
		} `json:"attributes"`
	} `json:"data"`
}

// toChartPoint converts one OHLCV row, using the first price column as the
// sample price. It reports false for rows it cannot read.
func toChartPoint(row []json.RawMessage) (domain.ChartPoint, bool) {
	if len(row) < 2 {
		return domain.ChartPoint{}, false
	}
	ts, ok := parseNumber(row[0])
	if !ok {
		return domain.ChartPoint{}, false
	}
	price, ok := parseNumber(row[1])
	if !ok {
		return domain.ChartPoint{}, false
	}
	return domain.ChartPoint{
		Time:     ts.Mul(decimal.NewFromInt(1000)).IntPart(),
		PriceUSD: price.InexactFloat64(),
	}, true
}

func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Decimal{}, false
	}
	if s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return decimal.Decimal{}, false
		}
		s = strings.TrimSpace(unquoted)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
