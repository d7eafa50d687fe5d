// Package chain keeps the set of EVM networks the service knows about,
// loaded from a YAML file.
package chain

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// Registry stores chains by case-insensitive name. It is safe for concurrent
// use.
type Registry struct {
	mu     sync.RWMutex
	chains map[string]domain.Chain
	order  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{chains: make(map[string]domain.Chain)}
}

// Register validates c and adds it. Registering a name twice returns
// domain.ErrAlreadyExists.
func (r *Registry) Register(c domain.Chain) error {
	if err := validate(c); err != nil {
		return err
	}
	key := strings.ToLower(c.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chains[key]; ok {
		return fmt.Errorf("chain: %q: %w", c.Name, domain.ErrAlreadyExists)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	r.chains[key] = c
	r.order = append(r.order, key)
	return nil
}

// Get returns the chain registered under name, or domain.ErrNotFound.
func (r *Registry) Get(name string) (domain.Chain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chains[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.Chain{}, fmt.Errorf("chain: %q: %w", name, domain.ErrNotFound)
	}
	return c, nil
}

// List returns every chain in registration order.
func (r *Registry) List() []domain.Chain {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Chain, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.chains[key])
	}
	return out
}

// Len returns the number of registered chains.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chains)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.chains))
	for _, c := range r.chains {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// ExplorerURL returns the explorer of the chain named network, if any.
func (r *Registry) ExplorerURL(network string) (string, bool) {
	c, err := r.Get(network)
	if err != nil || c.ExplorerURL == "" {
		return "", false
	}
	return c.ExplorerURL, true
}

// FromEntries builds a Registry from chain entries.
func FromEntries(entries []domain.Chain) (*Registry, error) {
	r := NewRegistry()
	for _, c := range entries {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadFile reads a YAML list of chains from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chain: read %s: %w", path, err)
	}
	var entries []domain.Chain
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("chain: decode %s: %w", path, err)
	}
	return FromEntries(entries)
}

func validate(c domain.Chain) error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if c.ChainID <= 0 {
		missing = append(missing, "chain_id")
	}
	if strings.TrimSpace(c.RPCURL) == "" {
		missing = append(missing, "rpc_url")
	}
	if strings.TrimSpace(c.CurrencySymbol) == "" {
		missing = append(missing, "currency_symbol")
	}
	if len(missing) > 0 {
		return fmt.Errorf("chain: %q: missing required keys: %s", c.Name, strings.Join(missing, ", "))
	}
	return nil
}
