package chainrpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

func newRPCServer(t *testing.T, result string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_blockNumber", req.Method)
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatestBlocks(t *testing.T) {
	var calls atomic.Int32
	a := newRPCServer(t, "0x10", &calls)
	b := newRPCServer(t, "0x20", &calls)

	p := NewProber(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	got, err := p.LatestBlocks(context.Background(), []domain.Chain{
		{Name: "ChainA", ChainID: 1, RPCURL: a.URL, CurrencySymbol: "A"},
		{Name: "ChainB", ChainID: 2, RPCURL: b.URL, CurrencySymbol: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"ChainA": 16, "ChainB": 32}, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLatestBlocksFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	p := NewProber(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := p.LatestBlocks(context.Background(), []domain.Chain{
		{Name: "Broken", ChainID: 1, RPCURL: broken.URL, CurrencySymbol: "X"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}
