package dexscreener

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tradecast/internal/domain"
	"github.com/alanyoungcy/tradecast/internal/platform/upstream"
)

const searchBody = `{
  "schemaVersion": "1.0.0",
  "pairs": [
    {
      "chainId": "base",
      "dexId": "uniswap",
      "url": "https://dexscreener.com/base/0xpair1",
      "pairAddress": "0xpair1",
      "baseToken": {"address": "0xtoken", "name": "Degen", "symbol": "DEGEN"}
    },
    {
      "chainId": "ethereum",
      "dexId": "uniswap",
      "url": "https://dexscreener.com/ethereum/0xpair2",
      "pairAddress": "0xpair2",
      "baseToken": {"address": "0xtoken2", "name": "Degen", "symbol": "DEGEN"}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, upstream.NewFetcher(upstream.Config{}, nil))
}

func TestSearchPairs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "degen coin", r.URL.Query().Get("q"))
		w.Write([]byte(searchBody))
	})

	pairs, err := c.SearchPairs(context.Background(), "degen coin")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, domain.PairMeta{
		TokenSymbol:  "DEGEN",
		TokenName:    "Degen",
		TokenAddress: "0xtoken",
		Network:      "base",
		PairAddress:  "0xpair1",
		DexURL:       "https://dexscreener.com/base/0xpair1",
	}, pairs[0])
}

func TestSearchPairsNullList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": null}`))
	})

	pairs, err := c.SearchPairs(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestSearchPairsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.SearchPairs(context.Background(), "degen")

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Contains(t, fe.URL, "/search?q=degen")
}

func TestRecentTradesCoercesNumbers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades/base/0xpair1", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"trades": [
			{"txId": "0xaaa", "txHash": "0xignored", "priceUsd": "0.0123", "amountUsd": "12.5",
			 "amountToken": 1000, "timestamp": 1700000000, "side": "buy", "maker": "0xmaker"},
			{"txHash": "0xbbb", "priceUsd": 0.5, "amountUsd": "n/a",
			 "amountNative": "2.25", "timestamp": "1700000060", "side": "sell", "maker": "0xother"},
			{"txHash": "0xccc", "priceUsd": null, "timestamp": 1700000120, "side": "buy", "maker": "0xthird"}
		]}`))
	})

	pair := domain.PairMeta{Network: "base", PairAddress: "0xpair1"}
	trades, err := c.RecentTrades(context.Background(), pair, 4)
	require.NoError(t, err)
	require.Len(t, trades, 3)

	assert.Equal(t, domain.Trade{
		Direction:   domain.DirectionBuy,
		AmountToken: 1000,
		AmountUSD:   12.5,
		PriceUSD:    0.0123,
		Timestamp:   1700000000000,
		TxHash:      "0xaaa",
		Trader:      "0xmaker",
	}, trades[0])

	// Unparseable amountUsd defaults to zero; amountToken falls back to amountNative.
	assert.Equal(t, domain.DirectionSell, trades[1].Direction)
	assert.Equal(t, "0xbbb", trades[1].TxHash)
	assert.Zero(t, trades[1].AmountUSD)
	assert.Equal(t, 2.25, trades[1].AmountToken)
	assert.Equal(t, int64(1700000060000), trades[1].Timestamp)

	// Known lossy path: missing amounts and a null price silently become zero.
	assert.Zero(t, trades[2].AmountToken)
	assert.Zero(t, trades[2].AmountUSD)
	assert.Zero(t, trades[2].PriceUSD)
}

func TestRecentTradesTruncatesToLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trades": [
			{"txHash": "0x1", "side": "buy"}, {"txHash": "0x2", "side": "buy"}, {"txHash": "0x3", "side": "sell"}
		]}`))
	})

	trades, err := c.RecentTrades(context.Background(), domain.PairMeta{Network: "base", PairAddress: "0xp"}, 2)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "0x1", trades[0].TxHash)
	assert.Equal(t, "0x2", trades[1].TxHash)
}

func TestRecentTradesFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.RecentTrades(context.Background(), domain.PairMeta{Network: "base", PairAddress: "0xp"}, 4)

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestMirrorURL(t *testing.T) {
	c := NewClient(Config{}, nil)

	base := domain.PairMeta{Network: "base", TokenAddress: "0xtoken", DexURL: "https://dexscreener.com/base/0xp"}
	assert.Equal(t, "https://app.uniswap.org/swap?chain=base&outputCurrency=0xtoken", c.MirrorURL(base))

	eth := domain.PairMeta{Network: "ethereum", TokenAddress: "0xtoken", DexURL: "https://dexscreener.com/ethereum/0xp"}
	assert.Equal(t, "https://dexscreener.com/ethereum/0xp", c.MirrorURL(eth))
}
