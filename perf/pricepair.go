package perf

import "math"

// PricePair carries two parallel valuations for one date. Market is the
// mark-to-market side, Book is the cost-basis side. The two are never mixed.
type PricePair struct {
	Market float64
	Book   float64
}

func (p *PricePair) AddMarket(v float64) {
	p.Market += v
}

func (p *PricePair) AddBook(v float64) {
	p.Book += v
}

func (p PricePair) Add(o PricePair) PricePair {
	return PricePair{Market: p.Market + o.Market, Book: p.Book + o.Book}
}

func (p PricePair) Sub(o PricePair) PricePair {
	return PricePair{Market: p.Market - o.Market, Book: p.Book - o.Book}
}

// Max is the component-wise maximum.
func (p PricePair) Max(o PricePair) PricePair {
	return PricePair{Market: math.Max(p.Market, o.Market), Book: math.Max(p.Book, o.Book)}
}

// Min is the component-wise minimum.
func (p PricePair) Min(o PricePair) PricePair {
	return PricePair{Market: math.Min(p.Market, o.Market), Book: math.Min(p.Book, o.Book)}
}
