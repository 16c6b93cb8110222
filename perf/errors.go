package perf

import "errors"

var (
	ErrNoPriceData = errors.New("perf: no price data")
	ErrNoTrades    = errors.New("perf: no trades")
	ErrCancelled   = errors.New("perf: cancelled")
	ErrInvalidLog  = errors.New("perf: invalid log")
)
