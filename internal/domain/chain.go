package domain

// Chain describes an EVM network known to the service.
type Chain struct {
	Name           string   `json:"name" yaml:"name"`
	ChainID        int64    `json:"chain_id" yaml:"chain_id"`
	RPCURL         string   `json:"rpc_url" yaml:"rpc_url"`
	CurrencySymbol string   `json:"currency_symbol" yaml:"currency_symbol"`
	ExplorerURL    string   `json:"explorer_url,omitempty" yaml:"explorer_url"`
	Tags           []string `json:"tags" yaml:"tags"`
}
