package pricing

import "github.com/rustyeddy/ptsim/market"

// Weekly folds date-ordered daily bars into ISO-week bars. A week is
// dated by its first bar and takes the first traded open, the highest
// high, the lowest non-zero low and the last traded close. Volume sums.
func Weekly(bars []market.PriceBar) []market.PriceBar {
	var (
		out     []market.PriceBar
		cur     *market.PriceBar
		curYear int
		curWeek int
	)

	for _, b := range bars {
		y, w := b.Date.ISOWeek()
		if cur == nil || y != curYear || w != curWeek {
			out = append(out, market.PriceBar{Date: market.Day(b.Date)})
			cur = &out[len(out)-1]
			curYear, curWeek = y, w
		}

		if cur.Open == 0 && b.Open > 0 {
			cur.Open = b.Open
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low > 0 && (cur.Low == 0 || b.Low < cur.Low) {
			cur.Low = b.Low
		}
		if b.Close > 0 {
			cur.Close = b.Close
		}
		cur.Volume += b.Volume
	}
	return out
}

// Resample converts daily bars to tf.
func Resample(bars []market.PriceBar, tf market.TimeFrame) []market.PriceBar {
	if tf == market.Weekly {
		return Weekly(bars)
	}
	return bars
}
