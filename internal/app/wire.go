package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/tradecast/internal/cache/redis"
	"github.com/alanyoungcy/tradecast/internal/chain"
	"github.com/alanyoungcy/tradecast/internal/config"
	"github.com/alanyoungcy/tradecast/internal/domain"
	"github.com/alanyoungcy/tradecast/internal/notary"
	"github.com/alanyoungcy/tradecast/internal/platform/chainrpc"
	"github.com/alanyoungcy/tradecast/internal/platform/dexscreener"
	"github.com/alanyoungcy/tradecast/internal/platform/geckoterminal"
	"github.com/alanyoungcy/tradecast/internal/platform/upstream"
	"github.com/alanyoungcy/tradecast/internal/service"
)

// Dependencies bundles everything the run modes need. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Redis is nil when the response cache is disabled.
	Redis *redis.Client

	Chains *chain.Registry
	Prober *chainrpc.Prober
	Notary *notary.Builder
	Feed   *service.FeedService
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Redis response cache (optional) ---
	var cache domain.ResponseCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.Redis = redisClient
		cache = redis.NewResponseCache(redisClient)
	}

	// --- Chain registry ---
	if cfg.Chains.File != "" {
		registry, err := chain.LoadFile(cfg.Chains.File)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: chains: %w", err)
		}
		deps.Chains = registry
	} else {
		deps.Chains = chain.NewRegistry()
	}
	deps.Prober = chainrpc.NewProber(cfg.Chains.RPCTimeout.Duration,
		logger.With(slog.String("component", "chainrpc")))

	// --- Market data clients ---
	fetcher := upstream.NewFetcher(upstream.Config{
		Timeout:  cfg.Upstream.Timeout.Duration,
		Cache:    cache,
		CacheTTL: cfg.Upstream.CacheTTL.Duration,
	}, logger.With(slog.String("component", "upstream")))

	listings := dexscreener.NewClient(dexscreener.Config{
		BaseURL:        cfg.Upstream.DexScreenerURL,
		PrimaryNetwork: cfg.Upstream.PrimaryNetwork,
		MirrorURL:      cfg.Upstream.MirrorURL,
	}, fetcher)
	history := geckoterminal.NewClient(cfg.Upstream.GeckoTerminalURL, fetcher,
		logger.With(slog.String("component", "geckoterminal")))

	// --- Notary and feed ---
	deps.Notary = notary.NewBuilder(notary.Config{
		ReceiptAddress: notary.ResolveReceiptAddress(cfg.Notary.ReceiptAddress),
		ExplorerURL:    cfg.Notary.ExplorerURL,
		Explorers:      deps.Chains,
	})

	deps.Feed = service.NewFeedService(
		listings,
		listings,
		history,
		service.NewAssembler(deps.Notary, listings),
		service.FeedConfig{
			TradesPerPair: cfg.Feed.TradesPerPair,
			ChartHours:    cfg.Feed.ChartHours,
		},
		logger.With(slog.String("component", "feed_service")),
	)

	return deps, cleanup, nil
}
