package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// ChainLister exposes the registered chains.
type ChainLister interface {
	List() []domain.Chain
}

// BlockProber reads the latest block height of each chain.
type BlockProber interface {
	LatestBlocks(ctx context.Context, chains []domain.Chain) (map[string]uint64, error)
}

// ChainHandler serves the chain registry endpoints.
type ChainHandler struct {
	chains ChainLister
	prober BlockProber
	logger *slog.Logger
}

// NewChainHandler creates a ChainHandler.
func NewChainHandler(chains ChainLister, prober BlockProber, logger *slog.Logger) *ChainHandler {
	return &ChainHandler{
		chains: chains,
		prober: prober,
		logger: logHandler(logger, "chains"),
	}
}

// ListChains returns the registry in registration order.
// GET /api/chains
func (h *ChainHandler) ListChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"chains": h.chains.List(),
	})
}

// LatestBlocks returns the current block height per registered chain.
// GET /api/chains/blocks
func (h *ChainHandler) LatestBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.prober.LatestBlocks(r.Context(), h.chains.List())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: probe blocks failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "Failed to read block heights")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"blocks": blocks,
	})
}
