package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

type fakeMarket struct {
	pairs      []domain.PairMeta
	searchErr  error
	tradeErrs  map[string]error
	chartless  map[string]bool
	tradeCount int

	mu           sync.Mutex
	searchQuery  string
	tradeLimits  []int
	chartHours   []int
	inFlight     atomic.Int32
	peakInFlight atomic.Int32
}

func (f *fakeMarket) SearchPairs(_ context.Context, query string) ([]domain.PairMeta, error) {
	f.mu.Lock()
	f.searchQuery = query
	f.mu.Unlock()
	return f.pairs, f.searchErr
}

func (f *fakeMarket) enter() func() {
	n := f.inFlight.Add(1)
	for {
		peak := f.peakInFlight.Load()
		if n <= peak || f.peakInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeMarket) RecentTrades(_ context.Context, pair domain.PairMeta, limit int) ([]domain.Trade, error) {
	defer f.enter()()
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.tradeLimits = append(f.tradeLimits, limit)
	f.mu.Unlock()

	if err := f.tradeErrs[pair.PairAddress]; err != nil {
		return nil, err
	}
	trades := make([]domain.Trade, 0, f.tradeCount)
	for i := 0; i < f.tradeCount; i++ {
		trades = append(trades, domain.Trade{
			Direction: domain.DirectionBuy,
			TxHash:    fmt.Sprintf("0x%s%d", pair.PairAddress, i),
			Timestamp: int64(1700000000000 + i),
		})
	}
	return trades, nil
}

func (f *fakeMarket) ChartPoints(_ context.Context, pair domain.PairMeta, hours int) []domain.ChartPoint {
	defer f.enter()()
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.chartHours = append(f.chartHours, hours)
	f.mu.Unlock()

	if f.chartless[pair.PairAddress] {
		return []domain.ChartPoint{}
	}
	return []domain.ChartPoint{{Time: 1700000000000, PriceUSD: 3.21}}
}

func makePairs(n int) []domain.PairMeta {
	pairs := make([]domain.PairMeta, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, domain.PairMeta{
			Network:     "base",
			PairAddress: fmt.Sprintf("p%d", i),
			DexURL:      fmt.Sprintf("https://dexscreener.com/base/p%d", i),
		})
	}
	return pairs
}

func newTestFeed(m *fakeMarket) *FeedService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFeedService(m, m, m, newTestAssembler("0xNOTARY"), FeedConfig{}, logger)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 3, ClampLimit(3))
	assert.Equal(t, 4, ClampLimit(8))
	assert.Equal(t, 4, ClampLimit(99))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 8, ParseLimit(""))
	assert.Equal(t, 8, ParseLimit("abc"))
	assert.Equal(t, 8, ParseLimit("2.5"))
	assert.Equal(t, 2, ParseLimit("2"))
	assert.Equal(t, 0, ParseLimit("0"))
	assert.Equal(t, 4, ClampLimit(ParseLimit("nope")))
}

func TestCastsEndToEnd(t *testing.T) {
	m := &fakeMarket{pairs: makePairs(6), tradeCount: 4}

	casts, err := newTestFeed(m).Casts(context.Background(), "DeGen", 8)
	require.NoError(t, err)

	assert.Equal(t, "degen", m.searchQuery)
	assert.Len(t, casts, 16)
	assert.Equal(t, []int{4, 4, 4, 4}, m.tradeLimits)
	assert.Equal(t, []int{16, 16, 16, 16}, m.chartHours)

	seen := map[string]bool{}
	for _, c := range casts {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.Contains(t, c.ProofURL, "https://basescan.org/address/0xnotary#eventlog")
		assert.Len(t, c.Chart, 1)
	}

	// Pair selection order, then upstream trade order.
	assert.Equal(t, "p0-0xp00", casts[0].ID)
	assert.Equal(t, "p0-0xp03", casts[3].ID)
	assert.Equal(t, "p3-0xp33", casts[15].ID)
}

func TestCastsRunsFetchesConcurrently(t *testing.T) {
	m := &fakeMarket{pairs: makePairs(4), tradeCount: 1}

	_, err := newTestFeed(m).Casts(context.Background(), "degen", 4)
	require.NoError(t, err)
	assert.Greater(t, m.peakInFlight.Load(), int32(1))
}

func TestCastsLimitClamping(t *testing.T) {
	m := &fakeMarket{pairs: makePairs(6), tradeCount: 1}

	casts, err := newTestFeed(m).Casts(context.Background(), "degen", 0)
	require.NoError(t, err)
	assert.Len(t, casts, 1)

	m = &fakeMarket{pairs: makePairs(6), tradeCount: 1}
	casts, err = newTestFeed(m).Casts(context.Background(), "degen", 99)
	require.NoError(t, err)
	assert.Len(t, casts, 4)
}

func TestCastsMissingToken(t *testing.T) {
	_, err := newTestFeed(&fakeMarket{}).Casts(context.Background(), "  ", 4)
	assert.ErrorIs(t, err, domain.ErrMissingToken)
}

func TestCastsNoPairs(t *testing.T) {
	casts, err := newTestFeed(&fakeMarket{}).Casts(context.Background(), "nothing", 4)
	require.NoError(t, err)
	assert.NotNil(t, casts)
	assert.Empty(t, casts)
}

func TestCastsSearchFailure(t *testing.T) {
	fetchErr := &domain.FetchError{URL: "https://api/search?q=degen", StatusCode: 500}
	m := &fakeMarket{searchErr: fetchErr}

	casts, err := newTestFeed(m).Casts(context.Background(), "degen", 4)
	assert.Nil(t, casts)

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 500, fe.StatusCode)
}

func TestCastsTradeFailureAbortsEverything(t *testing.T) {
	m := &fakeMarket{
		pairs:      makePairs(4),
		tradeCount: 4,
		tradeErrs:  map[string]error{"p2": &domain.FetchError{URL: "https://api/trades/base/p2", StatusCode: 502}},
	}

	casts, err := newTestFeed(m).Casts(context.Background(), "degen", 4)
	require.Error(t, err)
	assert.Nil(t, casts)
	assert.Contains(t, err.Error(), "p2")
}

func TestCastsEmptyChartIsContained(t *testing.T) {
	m := &fakeMarket{
		pairs:      makePairs(2),
		tradeCount: 2,
		chartless:  map[string]bool{"p0": true},
	}

	casts, err := newTestFeed(m).Casts(context.Background(), "degen", 2)
	require.NoError(t, err)
	require.Len(t, casts, 4)

	for _, c := range casts {
		if c.Pair.PairAddress == "p0" {
			assert.Empty(t, c.Chart)
		} else {
			assert.Len(t, c.Chart, 1)
		}
	}
}
