package domain

// ChartPoint is one hourly price sample. Time is in milliseconds since the
// Unix epoch.
type ChartPoint struct {
	Time     int64   `json:"time"`
	PriceUSD float64 `json:"priceUsd"`
}
