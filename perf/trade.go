package perf

import "time"

// Trade is a completed round trip: a position that returned to flat or
// was flipped through zero by one fill.
type Trade struct {
	Code        string
	IsShort     bool
	OpenDate    time.Time
	CloseDate   time.Time
	HoldingDays int

	// Notionals attributable to the closed leg only.
	BuyNotional  float64
	SellNotional float64

	// Daily is the aggregate profit-curve delta on CloseDate.
	Daily PricePair
}

// Profit is the realized profit of the trade, signed.
func (t Trade) Profit() float64 {
	return t.SellNotional - t.BuyNotional
}

// Ratio is the realized return relative to the opening side's notional.
// A short's opening side is its sell notional.
func (t Trade) Ratio() float64 {
	if t.IsShort {
		return 1 - t.BuyNotional/t.SellNotional
	}
	return t.SellNotional/t.BuyNotional - 1
}

func (t Trade) Win() bool {
	return t.Profit() >= 0
}
