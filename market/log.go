package market

import (
	"fmt"
	"strings"
	"time"
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// ParseSide accepts buy/sell in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "b":
		return Buy, nil
	case "sell", "s":
		return Sell, nil
	default:
		return Buy, fmt.Errorf("unknown side %q", s)
	}
}

// LogEntry is one execution recorded by a trading system.
type LogEntry struct {
	Date     time.Time
	Code     string
	Side     Side
	Quantity uint64
	Price    float64
}

// Notional is quantity times price.
func (l LogEntry) Notional() float64 {
	return float64(l.Quantity) * l.Price
}
