package market

import "time"

// PriceBar is one instrument's OHLC bar for a single trading date.
// A zero Close means the instrument did not trade that day.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Traded reports whether the bar carries a usable close.
func (b PriceBar) Traded() bool {
	return b.Close > 0
}
