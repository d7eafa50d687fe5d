// Package geckoterminal is the client for the GeckoTerminal price-history
// API. Chart data is enhancement data: every failure here degrades to an
// empty chart instead of an error.
package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// DefaultBaseURL is the public GeckoTerminal API root.
const DefaultBaseURL = "https://api.geckoterminal.com/api/v2"

// Getter performs a GET and returns the body of a 2xx response.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Client is the REST client for GeckoTerminal pool OHLCV data.
type Client struct {
	baseURL string
	getter  Getter
	logger  *slog.Logger
}

// NewClient creates a GeckoTerminal client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, getter Getter, logger *slog.Logger) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: base,
		getter:  getter,
		logger:  logger.With(slog.String("component", "geckoterminal")),
	}
}

// ChartPoints returns up to hours hourly price samples for pair, oldest
// first. It never fails: transport, status and decoding errors are logged
// and produce an empty slice.
func (c *Client) ChartPoints(ctx context.Context, pair domain.PairMeta, hours int) []domain.ChartPoint {
	points, err := c.fetch(ctx, pair, hours)
	if err != nil {
		c.logger.WarnContext(ctx, "chart fetch failed",
			slog.String("network", pair.Network),
			slog.String("pair", pair.PairAddress),
			slog.String("error", err.Error()),
		)
		return []domain.ChartPoint{}
	}
	return points
}

func (c *Client) fetch(ctx context.Context, pair domain.PairMeta, hours int) ([]domain.ChartPoint, error) {
	params := url.Values{}
	params.Set("aggregate", "1")
	params.Set("limit", strconv.Itoa(hours))

	path := fmt.Sprintf("/networks/%s/pools/%s/ohlcv/hour?%s",
		url.PathEscape(pair.Network),
		url.PathEscape(pair.PairAddress),
		params.Encode(),
	)

	body, err := c.getter.Get(ctx, c.baseURL+path)
	if err != nil {
		return nil, fmt.Errorf("geckoterminal: ohlcv: %w", err)
	}

	var resp ohlcvResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("geckoterminal: decode ohlcv: %w", err)
	}

	rows := resp.Data.Attributes.OHLCVList
	points := make([]domain.ChartPoint, 0, len(rows))
	for _, row := range rows {
		if p, ok := toChartPoint(row); ok {
			points = append(points, p)
		}
	}

	// The API lists newest first.
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	if hours > 0 && len(points) > hours {
		points = points[len(points)-hours:]
	}
	return points, nil
}
