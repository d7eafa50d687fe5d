package domain

// PairMeta identifies a tradable token pair listed on a decentralized
// exchange. Network is the listing API's chain identifier (e.g. "base").
type PairMeta struct {
	TokenSymbol  string `json:"tokenSymbol"`
	TokenName    string `json:"tokenName"`
	TokenAddress string `json:"tokenAddress"`
	Network      string `json:"network"`
	PairAddress  string `json:"pairAddress"`
	DexURL       string `json:"dexUrl,omitempty"`
}
