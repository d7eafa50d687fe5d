// Package format renders trade values as display strings for casts and feed
// cards. Every function is pure.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// USD formats a dollar amount: whole dollars with thousands separators from
// 1000 up, otherwise at most two fraction digits.
func USD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	if math.Abs(v) >= 1000 {
		return "$" + grouped(v, 0)
	}
	return "$" + grouped(v, 2)
}

// TokenAmount formats a token quantity with precision that shrinks as the
// magnitude grows.
func TokenAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	switch abs := math.Abs(v); {
	case abs >= 1000:
		return grouped(v, 0)
	case abs >= 1:
		return grouped(v, 2)
	default:
		return grouped(v, 4)
	}
}

// grouped rounds v half away from zero to at most digits fraction digits,
// drops trailing zeros and inserts thousands separators.
func grouped(v float64, digits int32) string {
	rounded, _ := decimal.NewFromFloat(v).Round(digits).Float64()
	if rounded == 0 {
		rounded = 0 // normalise -0
	}
	return humanize.Commaf(rounded)
}

// RelativeTime describes how long ago tsMillis was, relative to now.
func RelativeTime(tsMillis int64, now time.Time) string {
	if tsMillis == 0 {
		return "just now"
	}
	return humanize.RelTime(time.UnixMilli(tsMillis), now, "ago", "from now")
}

// ShortenAddress keeps the 0x prefix plus chars leading and chars trailing
// characters of an address.
func ShortenAddress(address string, chars int) string {
	if address == "" {
		return "unknown"
	}
	if len(address) <= 2*chars+2 {
		return address
	}
	return address[:chars+2] + "…" + address[len(address)-chars:]
}

// ShortenHash shortens a transaction hash for display.
func ShortenHash(hash string) string {
	return ShortenAddress(hash, 6)
}

// CastText composes the shareable one-line description of a trade.
func CastText(pair domain.PairMeta, trade domain.Trade) string {
	action := "Sold"
	if trade.Direction == domain.DirectionBuy {
		action = "Bought"
	}
	return fmt.Sprintf("%s %s %s on %s (%s) #TradeCast",
		action,
		TokenAmount(trade.AmountToken),
		strings.ToUpper(pair.TokenSymbol),
		pair.Network,
		USD(trade.AmountUSD),
	)
}
