package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tradecast/internal/domain"
	"github.com/alanyoungcy/tradecast/internal/server/handler"
	"github.com/alanyoungcy/tradecast/internal/server/middleware"
)

type emptyFeed struct{}

func (emptyFeed) Casts(context.Context, string, int) ([]domain.TradeCast, error) {
	return nil, nil
}

type noChains struct{}

func (noChains) List() []domain.Chain { return []domain.Chain{} }

func (noChains) LatestBlocks(context.Context, []domain.Chain) (map[string]uint64, error) {
	return map[string]uint64{}, nil
}

func newTestHandler() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(
		Config{CORSOrigins: []string{"https://app.example"}},
		Handlers{
			Health:     handler.NewHealthHandler(nil, 0, logger),
			TradeCasts: handler.NewTradeCastHandler(emptyFeed{}, logger),
			Chains:     handler.NewChainHandler(noChains{}, noChains{}, logger),
		},
		nil,
		logger,
	)
}

func TestRoutes(t *testing.T) {
	h := newTestHandler()

	cases := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/tradecasts?token=degen", http.StatusOK},
		{http.MethodGet, "/api/tradecasts", http.StatusBadRequest},
		{http.MethodGet, "/api/tradecasts/text?direction=buy&symbol=degen", http.StatusOK},
		{http.MethodGet, "/api/chains", http.StatusOK},
		{http.MethodGet, "/api/chains/blocks", http.StatusOK},
		{http.MethodPost, "/api/tradecasts?token=degen", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/orders", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.target)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	}
}

func TestPreflight(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodOptions, "/api/tradecasts", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
