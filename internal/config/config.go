// Package config defines the top-level configuration for the TradeCast
// service and provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by TRADECAST_* environment variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Notary   NotaryConfig   `toml:"notary"`
	Feed     FeedConfig     `toml:"feed"`
	Redis    RedisConfig    `toml:"redis"`
	Chains   ChainsConfig   `toml:"chains"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// UpstreamConfig holds the market-data API endpoints.
type UpstreamConfig struct {
	DexScreenerURL   string   `toml:"dexscreener_url"`
	GeckoTerminalURL string   `toml:"geckoterminal_url"`
	Timeout          duration `toml:"timeout"`
	// CacheTTL is how long raw upstream responses are reused when Redis is
	// enabled. Zero disables the cache.
	CacheTTL       duration `toml:"cache_ttl"`
	PrimaryNetwork string   `toml:"primary_network"`
	MirrorURL      string   `toml:"mirror_url"`
}

// NotaryConfig selects the receipt contract used for proof links.
type NotaryConfig struct {
	// ReceiptAddress is the TradeReceipt contract. Empty selects the default
	// deployment; "disabled" turns receipt links off.
	ReceiptAddress string `toml:"receipt_address"`
	ExplorerURL    string `toml:"explorer_url"`
}

// FeedConfig holds feed aggregation parameters.
type FeedConfig struct {
	TradesPerPair   int      `toml:"trades_per_pair"`
	ChartHours      int      `toml:"chart_hours"`
	RefreshInterval duration `toml:"refresh_interval"`
}

// RedisConfig holds Redis connection parameters for the response cache.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ChainsConfig points at the chain registry file.
type ChainsConfig struct {
	File       string   `toml:"file"`
	RPCTimeout duration `toml:"rpc_timeout"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:3000"},
			ShutdownTimeout: duration{10 * time.Second},
		},
		Upstream: UpstreamConfig{
			DexScreenerURL:   "https://api.dexscreener.com/latest/dex",
			GeckoTerminalURL: "https://api.geckoterminal.com/api/v2",
			Timeout:          duration{15 * time.Second},
			CacheTTL:         duration{15 * time.Second},
			PrimaryNetwork:   "base",
			MirrorURL:        "https://app.uniswap.org/swap",
		},
		Notary: NotaryConfig{
			ExplorerURL: "https://basescan.org",
		},
		Feed: FeedConfig{
			TradesPerPair:   4,
			ChartHours:      16,
			RefreshInterval: duration{20 * time.Second},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		Chains: ChainsConfig{
			RPCTimeout: duration{10 * time.Second},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server": true,
	"blocks": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, blocks)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	// Upstream
	if !isHTTPURL(c.Upstream.DexScreenerURL) {
		errs = append(errs, fmt.Sprintf("upstream: dexscreener_url must be an http(s) URL, got %q", c.Upstream.DexScreenerURL))
	}
	if !isHTTPURL(c.Upstream.GeckoTerminalURL) {
		errs = append(errs, fmt.Sprintf("upstream: geckoterminal_url must be an http(s) URL, got %q", c.Upstream.GeckoTerminalURL))
	}
	if !isHTTPURL(c.Upstream.MirrorURL) {
		errs = append(errs, fmt.Sprintf("upstream: mirror_url must be an http(s) URL, got %q", c.Upstream.MirrorURL))
	}
	if c.Upstream.Timeout.Duration <= 0 {
		errs = append(errs, "upstream: timeout must be > 0")
	}
	if c.Upstream.CacheTTL.Duration < 0 {
		errs = append(errs, "upstream: cache_ttl must be >= 0")
	}
	if strings.TrimSpace(c.Upstream.PrimaryNetwork) == "" {
		errs = append(errs, "upstream: primary_network must not be empty")
	}

	// Notary
	if addr := strings.TrimSpace(c.Notary.ReceiptAddress); addr != "" && !strings.EqualFold(addr, "disabled") {
		if !common.IsHexAddress(addr) {
			errs = append(errs, fmt.Sprintf("notary: receipt_address %q is not a hex address (or \"disabled\")", addr))
		}
	}
	if !isHTTPURL(c.Notary.ExplorerURL) {
		errs = append(errs, fmt.Sprintf("notary: explorer_url must be an http(s) URL, got %q", c.Notary.ExplorerURL))
	}

	// Feed
	if c.Feed.TradesPerPair < 1 {
		errs = append(errs, "feed: trades_per_pair must be >= 1")
	}
	if c.Feed.ChartHours < 1 {
		errs = append(errs, "feed: chart_hours must be >= 1")
	}
	if c.Feed.RefreshInterval.Duration < time.Second {
		errs = append(errs, "feed: refresh_interval must be >= 1s")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Chains
	if strings.ToLower(c.Mode) == "blocks" && strings.TrimSpace(c.Chains.File) == "" {
		errs = append(errs, "chains: file is required for mode blocks")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
