package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

const (
	// MinPairs and MaxPairs bound how many pairs one feed request fans out to.
	MinPairs = 1
	MaxPairs = 4

	// DefaultRequestLimit applies when a request carries no integer limit.
	DefaultRequestLimit = 8

	defaultTradesPerPair = 4
	defaultChartHours    = 16
)

// PairSearcher finds pairs for a token query.
type PairSearcher interface {
	SearchPairs(ctx context.Context, query string) ([]domain.PairMeta, error)
}

// TradeLister lists the recent trades of a pair.
type TradeLister interface {
	RecentTrades(ctx context.Context, pair domain.PairMeta, limit int) ([]domain.Trade, error)
}

// ChartFetcher returns price history for a pair. Implementations absorb their
// own failures and return an empty slice instead.
type ChartFetcher interface {
	ChartPoints(ctx context.Context, pair domain.PairMeta, hours int) []domain.ChartPoint
}

// FeedConfig tunes the per-pair fetch sizes. Zero values select the defaults
// of 4 trades and 16 hourly chart points.
type FeedConfig struct {
	TradesPerPair int
	ChartHours    int
}

// FeedService answers "recent TradeCasts for token X" by fanning out to the
// market-data clients and assembling the results.
type FeedService struct {
	pairs     PairSearcher
	trades    TradeLister
	charts    ChartFetcher
	assembler *Assembler
	cfg       FeedConfig
	logger    *slog.Logger
}

// NewFeedService creates a FeedService with all required dependencies.
func NewFeedService(
	pairs PairSearcher,
	trades TradeLister,
	charts ChartFetcher,
	assembler *Assembler,
	cfg FeedConfig,
	logger *slog.Logger,
) *FeedService {
	if cfg.TradesPerPair <= 0 {
		cfg.TradesPerPair = defaultTradesPerPair
	}
	if cfg.ChartHours <= 0 {
		cfg.ChartHours = defaultChartHours
	}
	return &FeedService{
		pairs:     pairs,
		trades:    trades,
		charts:    charts,
		assembler: assembler,
		cfg:       cfg,
		logger:    logger,
	}
}

// ClampLimit bounds a requested pair count to [MinPairs, MaxPairs].
func ClampLimit(limit int) int {
	return max(MinPairs, min(limit, MaxPairs))
}

// ParseLimit reads a raw limit parameter. Anything that is not an integer
// yields DefaultRequestLimit; the result is not clamped.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultRequestLimit
	}
	return n
}

// Casts returns the casts for up to ClampLimit(limit) pairs matching query.
// Pairs are processed concurrently; within a pair the trade and chart fetches
// run in parallel. A failed search or trade listing fails the whole call and
// no partial result is returned. Casts keep the search order of their pairs
// and the upstream order of trades within a pair.
func (s *FeedService) Casts(ctx context.Context, query string, limit int) ([]domain.TradeCast, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, domain.ErrMissingToken
	}

	pairs, err := s.pairs.SearchPairs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("feed_service: search %q: %w", query, err)
	}
	if n := ClampLimit(limit); len(pairs) > n {
		pairs = pairs[:n]
	}

	perPair := make([][]domain.TradeCast, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			casts, err := s.pairCasts(gctx, pair)
			if err != nil {
				return err
			}
			perPair[i] = casts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, casts := range perPair {
		total += len(casts)
	}
	out := make([]domain.TradeCast, 0, total)
	for _, casts := range perPair {
		out = append(out, casts...)
	}

	s.logger.DebugContext(ctx, "feed_service: casts assembled",
		slog.String("query", query),
		slog.Int("pairs", len(pairs)),
		slog.Int("casts", len(out)),
	)
	return out, nil
}

// pairCasts fetches trades and chart for one pair concurrently and expands
// every trade into a cast sharing the chart.
func (s *FeedService) pairCasts(ctx context.Context, pair domain.PairMeta) ([]domain.TradeCast, error) {
	var (
		trades []domain.Trade
		chart  []domain.ChartPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trades, err = s.trades.RecentTrades(gctx, pair, s.cfg.TradesPerPair)
		if err != nil {
			return fmt.Errorf("feed_service: trades for %s/%s: %w", pair.Network, pair.PairAddress, err)
		}
		return nil
	})
	g.Go(func() error {
		chart = s.charts.ChartPoints(gctx, pair, s.cfg.ChartHours)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	casts := make([]domain.TradeCast, 0, len(trades))
	for _, trade := range trades {
		casts = append(casts, s.assembler.Assemble(pair, trade, chart))
	}
	return casts, nil
}
