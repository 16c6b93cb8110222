package perf

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/ptsim/market"
)

// position is the running state of one instrument during replay.
// avgCost is meaningful only while qty != 0.
type position struct {
	qty      int64
	avgCost  float64
	openDate time.Time

	// Fill notionals of the trade in progress.
	totalBuy  float64
	totalSell float64
}

type instrumentResult struct {
	trades  []Trade
	running bool
}

// replayInstrument walks one instrument's bars in date order alongside its
// log, accruing market and book deltas into profits and values, and returns
// the trades it closed.
func replayInstrument(ctx context.Context, code string, bars []market.PriceBar, logs []market.LogEntry, profits, values *Curve) (instrumentResult, error) {
	var (
		res       instrumentResult
		pos       position
		prevClose float64
		prevHigh  float64
		next      int
	)

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return instrumentResult{}, err
		}

		daily := profits.At(bar.Date)
		value := values.At(bar.Date)
		close := bar.Close

		if pos.qty != 0 && close > 0 && prevClose > 0 {
			daily.AddMarket(float64(pos.qty) * (close - prevClose))
		}
		if close > 0 {
			prevClose = close
		}
		if bar.High > 0 {
			prevHigh = bar.High
		}
		value.AddMarket(math.Abs(float64(pos.qty)) * prevHigh)

		day := market.Day(bar.Date)
		for next < len(logs) && market.Day(logs[next].Date).Equal(day) {
			entry := logs[next]
			next++
			if entry.Quantity == 0 {
				continue
			}
			if t, ok := pos.fill(entry, close, daily, value); ok {
				t.Code = code
				res.trades = append(res.trades, t)
			}
		}
	}

	res.running = pos.qty != 0
	return res, nil
}

// fill applies one execution. It returns a trade when the fill closed the
// position or flipped it through zero.
func (p *position) fill(e market.LogEntry, close float64, daily, value *PricePair) (Trade, bool) {
	prev := p.qty
	qty := float64(e.Quantity)
	notional := e.Notional()

	if e.Side == market.Buy {
		p.qty += int64(e.Quantity)
		p.totalBuy += notional
		if close > 0 {
			daily.AddMarket(qty * (close - e.Price))
		}
	} else {
		p.qty -= int64(e.Quantity)
		p.totalSell += notional
		if close > 0 {
			daily.AddMarket(qty * (e.Price - close))
		}
	}

	abs := math.Abs(float64(p.qty))
	prevAbs := math.Abs(float64(prev))

	if sign(p.qty)*sign(prev) > 0 {
		if abs < prevAbs {
			value.AddBook(-qty * p.avgCost)
			daily.AddBook(qty * sign(p.qty) * (e.Price - p.avgCost))
		} else {
			p.avgCost = (prevAbs*p.avgCost + notional) / abs
			value.AddBook(notional)
		}
		return Trade{}, false
	}

	// Unwind the previous leg completely.
	value.AddBook(-prevAbs * p.avgCost)
	daily.AddBook(float64(prev) * (e.Price - p.avgCost))

	openDate := p.openDate
	if p.qty == 0 {
		p.avgCost = 0
	} else {
		value.AddBook(abs * e.Price)
		p.avgCost = e.Price
		p.openDate = market.Day(e.Date)
		if prev == 0 {
			return Trade{}, false
		}
	}

	// The opening leg of a flip is charged at the fill price and carried
	// into the next trade's totals.
	buy, sell := p.totalBuy, p.totalSell
	p.totalBuy, p.totalSell = 0, 0
	if p.qty > 0 {
		p.totalBuy = abs * e.Price
		buy -= p.totalBuy
	} else if p.qty < 0 {
		p.totalSell = abs * e.Price
		sell -= p.totalSell
	}

	return Trade{
		IsShort:      e.Side == market.Buy,
		OpenDate:     openDate,
		CloseDate:    market.Day(e.Date),
		HoldingDays:  market.DaysBetween(openDate, e.Date),
		BuyNotional:  buy,
		SellNotional: sell,
	}, true
}

func sign(q int64) float64 {
	switch {
	case q > 0:
		return 1
	case q < 0:
		return -1
	}
	return 0
}

// validateLog checks that logs are in date order and that every entry
// falls on a bar date; an entry off the calendar would never be consumed
// and would hold back every later entry.
func validateLog(code string, bars []market.PriceBar, logs []market.LogEntry) error {
	dates := make(map[time.Time]bool, len(bars))
	for _, b := range bars {
		dates[market.Day(b.Date)] = true
	}
	var last time.Time
	for i, e := range logs {
		d := market.Day(e.Date)
		if i > 0 && d.Before(last) {
			return fmt.Errorf("%w: %s entry %d on %s is out of order", ErrInvalidLog, code, i, d.Format(market.DateLayout))
		}
		if !dates[d] {
			return fmt.Errorf("%w: %s entry %d on %s has no price bar", ErrInvalidLog, code, i, d.Format(market.DateLayout))
		}
		last = d
	}
	return nil
}
