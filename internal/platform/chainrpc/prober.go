// Package chainrpc queries EVM JSON-RPC endpoints of registered chains.
package chainrpc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Prober reads chain heads over JSON-RPC.
type Prober struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewProber creates a Prober. timeout bounds each per-chain call; zero selects
// ten seconds.
func NewProber(timeout time.Duration, logger *slog.Logger) *Prober {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Prober{timeout: timeout, logger: logger}
}

// LatestBlocks returns the latest block number of every chain, keyed by chain
// name. All chains are queried concurrently; the first failure is returned.
func (p *Prober) LatestBlocks(ctx context.Context, chains []domain.Chain) (map[string]uint64, error) {
	var mu sync.Mutex
	out := make(map[string]uint64, len(chains))

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chains {
		c := c
		g.Go(func() error {
			n, err := p.blockNumber(gctx, c)
			if err != nil {
				return err
			}
			mu.Lock()
			out[c.Name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Prober) blockNumber(ctx context.Context, c domain.Chain) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, c.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("chainrpc: dial %s: %w", c.Name, err)
	}
	defer client.Close()

	n, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("chainrpc: eth_blockNumber %s: %w", c.Name, err)
	}
	p.logger.DebugContext(ctx, "chainrpc: block number",
		slog.String("chain", c.Name),
		slog.Uint64("block", n),
	)
	return n, nil
}
