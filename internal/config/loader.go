package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TRADECAST_* environment variable overrides, and
// returns the final Config. An empty path skips the file. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TRADECAST_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty).
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "TRADECAST_SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT") // platform convention
	setStringSlice(&cfg.Server.CORSOrigins, "TRADECAST_SERVER_CORS_ORIGINS")
	setDuration(&cfg.Server.ShutdownTimeout, "TRADECAST_SERVER_SHUTDOWN_TIMEOUT")

	// ── Upstream ──
	setStr(&cfg.Upstream.DexScreenerURL, "TRADECAST_UPSTREAM_DEXSCREENER_URL")
	setStr(&cfg.Upstream.GeckoTerminalURL, "TRADECAST_UPSTREAM_GECKOTERMINAL_URL")
	setDuration(&cfg.Upstream.Timeout, "TRADECAST_UPSTREAM_TIMEOUT")
	setDuration(&cfg.Upstream.CacheTTL, "TRADECAST_UPSTREAM_CACHE_TTL")
	setStr(&cfg.Upstream.PrimaryNetwork, "TRADECAST_UPSTREAM_PRIMARY_NETWORK")
	setStr(&cfg.Upstream.MirrorURL, "TRADECAST_UPSTREAM_MIRROR_URL")

	// ── Notary ──
	setStr(&cfg.Notary.ReceiptAddress, "NEXT_PUBLIC_TRADE_RECEIPT_ADDRESS") // compatibility alias
	setStr(&cfg.Notary.ReceiptAddress, "TRADECAST_NOTARY_RECEIPT_ADDRESS")
	setStr(&cfg.Notary.ExplorerURL, "TRADECAST_NOTARY_EXPLORER_URL")

	// ── Feed ──
	setInt(&cfg.Feed.TradesPerPair, "TRADECAST_FEED_TRADES_PER_PAIR")
	setInt(&cfg.Feed.ChartHours, "TRADECAST_FEED_CHART_HOURS")
	setDuration(&cfg.Feed.RefreshInterval, "TRADECAST_FEED_REFRESH_INTERVAL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "TRADECAST_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "TRADECAST_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "TRADECAST_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TRADECAST_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "TRADECAST_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "TRADECAST_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "TRADECAST_REDIS_TLS_ENABLED")

	// ── Chains ──
	setStr(&cfg.Chains.File, "TRADECAST_CHAINS_FILE")
	setDuration(&cfg.Chains.RPCTimeout, "TRADECAST_CHAINS_RPC_TIMEOUT")

	// ── Top-level ──
	setStr(&cfg.Mode, "TRADECAST_MODE")
	setStr(&cfg.LogLevel, "TRADECAST_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
