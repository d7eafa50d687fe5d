package domain

// TradeDirection is the side of an executed swap.
type TradeDirection string

const (
	DirectionBuy  TradeDirection = "buy"
	DirectionSell TradeDirection = "sell"
)

// Trade is a single executed swap on a pair. Timestamp is in milliseconds
// since the Unix epoch. Numeric fields that the upstream API omitted or sent
// in an unparseable form are zero.
type Trade struct {
	Direction   TradeDirection `json:"direction"`
	AmountToken float64        `json:"amountToken"`
	AmountUSD   float64        `json:"amountUsd"`
	PriceUSD    float64        `json:"priceUsd"`
	Timestamp   int64          `json:"timestamp"`
	TxHash      string         `json:"txHash"`
	Trader      string         `json:"trader"`
}
