package perf

import "math"

// MaxPosition is the component-wise maximum of a position-value series.
func MaxPosition(values Series) PricePair {
	var m PricePair
	for _, v := range values {
		m = m.Max(v.PricePair)
	}
	return m
}

// Budget is the largest book exposure net of cumulative book profit over
// every date of the profit series.
func Budget(profits, values Series) float64 {
	var budget float64
	for _, p := range profits {
		budget = math.Max(budget, values.At(p.Date).Book-p.Book)
	}
	return budget
}

// Drawdown is the deepest decline of a cumulative series from its running
// peak, for each component. Both values are <= 0.
func Drawdown(profits Series) PricePair {
	var peak, dd PricePair
	for _, p := range profits {
		peak = peak.Max(p.PricePair)
		dd = dd.Min(p.PricePair.Sub(peak))
	}
	return dd
}
