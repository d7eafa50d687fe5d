package dexscreener

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// flexNumber unmarshals from a JSON number or a numeric string. Anything it
// cannot parse (null, "", "n/a", objects) becomes zero instead of failing
// the surrounding document.
type flexNumber struct {
	value float64
	set   bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	*f = flexNumber{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		raw = []byte(strings.TrimSpace(s))
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return nil
	}
	f.value, _ = d.Float64()
	f.set = true
	return nil
}

// APIToken is the base or quote token of a listed pair.
type APIToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// APIPair is a pair as returned by the search endpoint.
type APIPair struct {
	ChainID     string   `json:"chainId"`
	DexID       string   `json:"dexId"`
	URL         string   `json:"url"`
	PairAddress string   `json:"pairAddress"`
	BaseToken   APIToken `json:"baseToken"`
}

// ToDomainPair converts the API pair to a domain.PairMeta.
func (p *APIPair) ToDomainPair() domain.PairMeta {
	return domain.PairMeta{
		TokenSymbol:  p.BaseToken.Symbol,
		TokenName:    p.BaseToken.Name,
		TokenAddress: p.BaseToken.Address,
		Network:      p.ChainID,
		PairAddress:  p.PairAddress,
		DexURL:       p.URL,
	}
}

// APITrade is a swap as returned by the trades endpoint. Timestamp is in
// seconds.
type APITrade struct {
	TxID         string     `json:"txId"`
	TxHash       string     `json:"txHash"`
	PriceUSD     flexNumber `json:"priceUsd"`
	AmountUSD    flexNumber `json:"amountUsd"`
	AmountToken  flexNumber `json:"amountToken"`
	AmountNative flexNumber `json:"amountNative"`
	Timestamp    flexNumber `json:"timestamp"`
	Side         string     `json:"side"`
	Maker        string     `json:"maker"`
}

// ToDomainTrade converts the API trade to a domain.Trade. Missing numeric
// fields become zero; amountToken falls back to amountNative.
func (t *APITrade) ToDomainTrade() domain.Trade {
	hash := t.TxID
	if hash == "" {
		hash = t.TxHash
	}
	amount := t.AmountToken
	if !amount.set {
		amount = t.AmountNative
	}
	return domain.Trade{
		Direction:   domain.TradeDirection(strings.ToLower(t.Side)),
		AmountToken: amount.value,
		AmountUSD:   t.AmountUSD.value,
		PriceUSD:    t.PriceUSD.value,
		Timestamp:   int64(t.Timestamp.value * 1000),
		TxHash:      hash,
		Trader:      t.Maker,
	}
}

type searchResponse struct {
	Pairs []APIPair `json:"pairs"`
}

type tradesResponse struct {
	Trades []APITrade `json:"trades"`
}
