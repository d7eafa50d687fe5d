package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/tradecast/internal/server"
	"github.com/alanyoungcy/tradecast/internal/server/handler"
	"github.com/alanyoungcy/tradecast/internal/server/ws"
)

// ServerMode serves the REST API and the live feed until ctx is cancelled,
// then drains in-flight requests within the configured shutdown timeout.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode",
		slog.String("receipt_address", deps.Notary.ReceiptAddress()),
		slog.Int("chains", deps.Chains.Len()),
	)

	g, ctx := errgroup.WithContext(ctx)

	hub := ws.NewHub(deps.Feed, a.cfg.Feed.RefreshInterval.Duration,
		a.logger.With(slog.String("component", "ws")))
	g.Go(func() error {
		return hub.Run(ctx)
	})

	// A nil *redis.Client must not become a non-nil Pinger.
	var cache handler.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health:     handler.NewHealthHandler(cache, deps.Chains.Len(), a.logger),
			TradeCasts: handler.NewTradeCastHandler(deps.Feed, a.logger),
			Chains:     handler.NewChainHandler(deps.Chains, deps.Prober, a.logger),
		},
		hub,
		a.logger.With(slog.String("component", "server")),
	)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

// BlocksMode logs the latest block height of every registered chain once and
// returns.
func (a *App) BlocksMode(ctx context.Context, deps *Dependencies) error {
	chains := deps.Chains.List()
	a.logger.InfoContext(ctx, "starting blocks mode", slog.Int("chains", len(chains)))

	start := time.Now()
	blocks, err := deps.Prober.LatestBlocks(ctx, chains)
	if err != nil {
		return fmt.Errorf("blocks mode: %w", err)
	}

	for _, name := range deps.Chains.Names() {
		c, err := deps.Chains.Get(name)
		if err != nil {
			continue
		}
		a.logger.InfoContext(ctx, "latest block",
			slog.String("chain", c.Name),
			slog.Int64("chain_id", c.ChainID),
			slog.Uint64("block", blocks[c.Name]),
		)
	}
	a.logger.InfoContext(ctx, "blocks mode complete",
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
