package perf

import (
	"sort"
	"time"

	"github.com/rustyeddy/ptsim/market"
	"github.com/tidwall/btree"
)

// Curve is a sparse, date-ordered collection of PricePair deltas.
// Entries are created on first access and never removed.
type Curve struct {
	days *btree.Map[int64, *PricePair]
}

func NewCurve() *Curve {
	return &Curve{days: btree.NewMap[int64, *PricePair](32)}
}

func dayKey(t time.Time) int64 {
	return market.Day(t).Unix()
}

// At returns the pair for date, creating a zero pair if the date is new.
func (c *Curve) At(date time.Time) *PricePair {
	k := dayKey(date)
	if p, ok := c.days.Get(k); ok {
		return p
	}
	p := &PricePair{}
	c.days.Set(k, p)
	return p
}

// Get returns the pair for date without creating it.
func (c *Curve) Get(date time.Time) (PricePair, bool) {
	p, ok := c.days.Get(dayKey(date))
	if !ok {
		return PricePair{}, false
	}
	return *p, true
}

func (c *Curve) Len() int {
	return c.days.Len()
}

// Merge adds every delta of o into c.
func (c *Curve) Merge(o *Curve) {
	o.days.Scan(func(k int64, p *PricePair) bool {
		dst := c.At(time.Unix(k, 0).UTC())
		dst.AddMarket(p.Market)
		dst.AddBook(p.Book)
		return true
	})
}

// Raw returns the per-date deltas in date order.
func (c *Curve) Raw() Series {
	out := make(Series, 0, c.days.Len())
	c.days.Scan(func(k int64, p *PricePair) bool {
		out = append(out, Point{Date: time.Unix(k, 0).UTC(), PricePair: *p})
		return true
	})
	return out
}

// Accumulated returns the running total of both components.
func (c *Curve) Accumulated() Series {
	out := c.Raw()
	var sum PricePair
	for i := range out {
		sum = sum.Add(out[i].PricePair)
		out[i].PricePair = sum
	}
	return out
}

// BookAccumulated returns the running total of the book component and
// leaves the market component as recorded. Position values use it: their
// market side is already a level, their book side is a delta.
func (c *Curve) BookAccumulated() Series {
	out := c.Raw()
	var book float64
	for i := range out {
		book += out[i].Book
		out[i].Book = book
	}
	return out
}

type Point struct {
	Date time.Time
	PricePair
}

// Series is a date-ordered view of a Curve.
type Series []Point

func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

// At returns the pair on date, or a zero pair when the date is absent.
func (s Series) At(date time.Time) PricePair {
	d := market.Day(date)
	i := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(d) })
	if i < len(s) && s[i].Date.Equal(d) {
		return s[i].PricePair
	}
	return PricePair{}
}

// Last returns the final point; ok is false on an empty series.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}
