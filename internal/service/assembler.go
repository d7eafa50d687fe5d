package service

import "github.com/alanyoungcy/tradecast/internal/domain"

// ProofLinker builds the explorer links a cast can use as proof.
type ProofLinker interface {
	ReceiptURL(txHash string) (string, bool)
	TransactionURL(network, txHash string) (string, bool)
}

// MirrorBuilder derives the link a viewer follows to repeat a trade.
type MirrorBuilder interface {
	MirrorURL(pair domain.PairMeta) string
}

// Assembler turns a pair, one of its trades and optional chart data into a
// TradeCast. It holds only immutable configuration, so Assemble is safe for
// concurrent use and returns identical output for identical input.
type Assembler struct {
	proofs  ProofLinker
	mirrors MirrorBuilder
}

// NewAssembler creates an Assembler. mirrors may be nil, in which case casts
// carry no mirror link.
func NewAssembler(proofs ProofLinker, mirrors MirrorBuilder) *Assembler {
	return &Assembler{proofs: proofs, mirrors: mirrors}
}

// Assemble builds the cast for trade on pair. The proof link is the notary
// receipt when available, else the transaction page, else the pair page.
func (a *Assembler) Assemble(pair domain.PairMeta, trade domain.Trade, chart []domain.ChartPoint) domain.TradeCast {
	receiptURL, _ := a.proofs.ReceiptURL(trade.TxHash)
	transactionURL, _ := a.proofs.TransactionURL(pair.Network, trade.TxHash)

	proofURL := pair.DexURL
	switch {
	case receiptURL != "":
		proofURL = receiptURL
	case transactionURL != "":
		proofURL = transactionURL
	}

	var mirrorURL string
	if a.mirrors != nil {
		mirrorURL = a.mirrors.MirrorURL(pair)
	}

	var points []domain.ChartPoint
	if chart != nil {
		points = make([]domain.ChartPoint, len(chart))
		copy(points, chart)
	}

	return domain.TradeCast{
		ID:             domain.TradeCastID(pair.PairAddress, trade.TxHash),
		Pair:           pair,
		Trade:          trade,
		ProofURL:       proofURL,
		ReceiptURL:     receiptURL,
		TransactionURL: transactionURL,
		MirrorURL:      mirrorURL,
		Chart:          points,
	}
}
