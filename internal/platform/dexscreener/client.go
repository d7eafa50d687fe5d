// Package dexscreener is the client for the DexScreener listings API: pair
// search and recent trades. It also derives mirror links for listed pairs.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// DefaultBaseURL is the public DexScreener API root.
const DefaultBaseURL = "https://api.dexscreener.com/latest/dex"

// DefaultMirrorURL is the swap front-end used for pairs on the primary
// network.
const DefaultMirrorURL = "https://app.uniswap.org/swap"

// Getter performs a GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Config configures a Client.
type Config struct {
	BaseURL        string
	PrimaryNetwork string
	MirrorURL      string
}

// Client is the REST client for the DexScreener API.
type Client struct {
	baseURL        string
	primaryNetwork string
	mirrorURL      string
	getter         Getter
}

// NewClient creates a DexScreener client that issues requests through getter.
func NewClient(cfg Config, getter Getter) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	primary := cfg.PrimaryNetwork
	if primary == "" {
		primary = "base"
	}
	mirror := cfg.MirrorURL
	if mirror == "" {
		mirror = DefaultMirrorURL
	}
	return &Client{
		baseURL:        base,
		primaryNetwork: primary,
		mirrorURL:      mirror,
		getter:         getter,
	}
}

// SearchPairs returns the pairs matching query. The caller is expected to
// have normalized the query's case.
func (c *Client) SearchPairs(ctx context.Context, query string) ([]domain.PairMeta, error) {
	params := url.Values{}
	params.Set("q", query)

	body, err := c.getter.Get(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("dexscreener: search pairs: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("dexscreener: decode search results: %w", err)
	}

	pairs := make([]domain.PairMeta, 0, len(resp.Pairs))
	for i := range resp.Pairs {
		pairs = append(pairs, resp.Pairs[i].ToDomainPair())
	}
	return pairs, nil
}

// RecentTrades returns up to limit of the most recent trades on pair, in the
// order the API lists them.
func (c *Client) RecentTrades(ctx context.Context, pair domain.PairMeta, limit int) ([]domain.Trade, error) {
	path := fmt.Sprintf("/trades/%s/%s?limit=%s",
		url.PathEscape(pair.Network),
		url.PathEscape(pair.PairAddress),
		strconv.Itoa(limit),
	)

	body, err := c.getter.Get(ctx, c.baseURL+path)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: recent trades %s/%s: %w", pair.Network, pair.PairAddress, err)
	}

	var resp tradesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("dexscreener: decode trades: %w", err)
	}

	n := len(resp.Trades)
	if limit > 0 && n > limit {
		n = limit
	}
	trades := make([]domain.Trade, 0, n)
	for i := 0; i < n; i++ {
		trades = append(trades, resp.Trades[i].ToDomainTrade())
	}
	return trades, nil
}

// MirrorURL returns a link that lets a viewer repeat a trade on pair. Pairs on
// the primary network open the swap front-end with the token preselected;
// everything else links to the pair's own page.
func (c *Client) MirrorURL(pair domain.PairMeta) string {
	if pair.Network != c.primaryNetwork {
		return pair.DexURL
	}
	params := url.Values{}
	params.Set("chain", c.primaryNetwork)
	params.Set("outputCurrency", pair.TokenAddress)
	return c.mirrorURL + "?" + params.Encode()
}
