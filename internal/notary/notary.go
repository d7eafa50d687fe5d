// Package notary builds block-explorer links that prove a trade happened:
// an event-log deep link on the TradeReceipt contract when one is deployed,
// and a plain transaction link otherwise.
package notary

import (
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EventSignature is the Solidity signature of the event the receipt contract
// emits when a trade is notarized.
const EventSignature = "TradeNotarized(address,bytes32,bytes32,string,uint256)"

// DefaultReceiptAddress is the deployed TradeReceipt contract on Base.
const DefaultReceiptAddress = "0xaf94ad1a7c0c9f3f988217c46dca5ea4665f57c0"

// DefaultExplorerURL is the explorer the receipt contract lives on.
const DefaultExplorerURL = "https://basescan.org"

// disabledValue switches the receipt link off when used as the address.
const disabledValue = "disabled"

// tradeNotarizedTopic is topic0 of every TradeNotarized log.
var tradeNotarizedTopic = ethcrypto.Keccak256Hash([]byte(EventSignature)).Hex()

// Topic returns the keccak-256 topic hash of EventSignature.
func Topic() string {
	return tradeNotarizedTopic
}

// ExplorerResolver maps a network identifier to its explorer base URL.
type ExplorerResolver interface {
	ExplorerURL(network string) (string, bool)
}

// Config holds the receipt contract and explorer the builder links to.
type Config struct {
	// ReceiptAddress is the normalized receipt contract address. Empty
	// disables receipt links.
	ReceiptAddress string
	// ExplorerURL is used for receipt links and for transaction links on
	// networks the resolver does not know.
	ExplorerURL string
	// Explorers is optional.
	Explorers ExplorerResolver
}

// Builder derives proof links. It holds no mutable state.
type Builder struct {
	receiptAddress string
	explorerURL    string
	explorers      ExplorerResolver
}

// NewBuilder creates a Builder from cfg.
func NewBuilder(cfg Config) *Builder {
	explorer := strings.TrimRight(strings.TrimSpace(cfg.ExplorerURL), "/")
	if explorer == "" {
		explorer = DefaultExplorerURL
	}
	return &Builder{
		receiptAddress: NormalizeHex(cfg.ReceiptAddress),
		explorerURL:    explorer,
		explorers:      cfg.Explorers,
	}
}

// ReceiptAddress returns the configured receipt contract, or "" when
// receipt links are disabled.
func (b *Builder) ReceiptAddress() string {
	return b.receiptAddress
}

// ReceiptURL returns the explorer event-log link filtering TradeNotarized
// logs of the receipt contract by txHash. It reports false when no receipt
// contract is configured or txHash is empty.
func (b *Builder) ReceiptURL(txHash string) (string, bool) {
	if b.receiptAddress == "" {
		return "", false
	}
	hash := NormalizeHex(txHash)
	if hash == "" {
		return "", false
	}

	addr := b.receiptAddress
	return b.explorerURL + "/address/" + addr +
		"#eventlog#address=" + addr +
		"&topic0=" + tradeNotarizedTopic +
		"&topic1=" + hash, true
}

// TransactionURL returns the explorer page for txHash on network. It reports
// false when txHash is empty.
func (b *Builder) TransactionURL(network, txHash string) (string, bool) {
	hash := strings.TrimSpace(txHash)
	if hash == "" {
		return "", false
	}
	explorer := b.explorerURL
	if b.explorers != nil {
		if u, ok := b.explorers.ExplorerURL(network); ok && u != "" {
			explorer = strings.TrimRight(u, "/")
		}
	}
	return explorer + "/tx/" + hash, true
}

// ResolveReceiptAddress turns the configured receipt address into the one the
// builder should use: "disabled" turns receipts off, an empty value falls
// back to DefaultReceiptAddress.
func ResolveReceiptAddress(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, disabledValue) {
		return ""
	}
	if trimmed == "" {
		return DefaultReceiptAddress
	}
	return NormalizeHex(trimmed)
}

// NormalizeHex trims and lowercases a hex value and guarantees a 0x prefix.
// Blank input yields "".
func NormalizeHex(v string) string {
	trimmed := strings.ToLower(strings.TrimSpace(v))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "0x") {
		return trimmed
	}
	return "0x" + trimmed
}
