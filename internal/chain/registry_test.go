package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(domain.Chain{Name: "ChainA", ChainID: 1, RPCURL: "https://a", CurrencySymbol: "A"}))

	c, err := r.Get("chaina")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ChainID)
	assert.Equal(t, []string{}, c.Tags)

	err = r.Register(domain.Chain{Name: "CHAINA", ChainID: 2, RPCURL: "https://b", CurrencySymbol: "B"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = r.Get("unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterRejectsMissingKeys(t *testing.T) {
	err := NewRegistry().Register(domain.Chain{Name: "Broken", ChainID: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc_url, currency_symbol")
}

func TestFromEntries(t *testing.T) {
	r, err := FromEntries([]domain.Chain{
		{Name: "B", ChainID: 2, RPCURL: "https://b", CurrencySymbol: "B"},
		{Name: "A", ChainID: 1, RPCURL: "https://a", CurrencySymbol: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"A", "B"}, r.Names())
	assert.Equal(t, "B", r.List()[0].Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	content := `
- name: base
  chain_id: 8453
  rpc_url: https://mainnet.base.org
  currency_symbol: ETH
  explorer_url: https://basescan.org
  tags: [l2, evm]
- name: ethereum
  chain_id: 1
  rpc_url: https://eth.llamarpc.com
  currency_symbol: ETH
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)

	base, err := r.Get("Base")
	require.NoError(t, err)
	assert.Equal(t, int64(8453), base.ChainID)
	assert.Equal(t, []string{"l2", "evm"}, base.Tags)

	u, ok := r.ExplorerURL("base")
	assert.True(t, ok)
	assert.Equal(t, "https://basescan.org", u)

	_, ok = r.ExplorerURL("ethereum")
	assert.False(t, ok)
}

func TestLoadFileNotAList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: base\n"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
