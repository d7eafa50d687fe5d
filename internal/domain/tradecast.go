package domain

// TradeCast is the shareable record combining a trade with its pair, proof
// links and optional price history. Values are built once by the assembler
// and never modified afterwards.
type TradeCast struct {
	ID             string       `json:"id"`
	Pair           PairMeta     `json:"pair"`
	Trade          Trade        `json:"trade"`
	ProofURL       string       `json:"proofUrl"`
	ReceiptURL     string       `json:"receiptUrl,omitempty"`
	TransactionURL string       `json:"transactionUrl,omitempty"`
	MirrorURL      string       `json:"mirrorUrl,omitempty"`
	Chart          []ChartPoint `json:"chart,omitempty"`
}

// TradeCastID derives the stable identifier of the cast for a trade on a
// pair. The same pair address and transaction hash always yield the same id.
func TradeCastID(pairAddress, txHash string) string {
	return pairAddress + "-" + txHash
}
