package perf

import (
	"math"
	"sort"
	"time"
)

// MonthKey identifies a calendar month bucket.
type MonthKey struct {
	Year  int
	Month time.Month
}

// Bucket aggregates the trades closed within one year or one month.
type Bucket struct {
	Trades     int
	Wins       int
	Profit     float64
	WinProfit  float64
	LoseProfit float64

	// MaxLossRatio is the lowest ratio among losing trades, 0 if none.
	MaxLossRatio float64

	// MaxMarketDrawdown is the lowest same-day market delta seen on a
	// trade close date, and the date it was seen.
	MaxMarketDrawdown     float64
	MaxMarketDrawdownDate time.Time
}

func (b *Bucket) add(t Trade, ratio, profit float64) {
	b.Trades++
	b.Profit += profit
	if profit >= 0 {
		b.Wins++
		b.WinProfit += profit
	} else {
		b.LoseProfit += profit
		b.MaxLossRatio = math.Min(b.MaxLossRatio, ratio)
	}
	if t.Daily.Market < b.MaxMarketDrawdown {
		b.MaxMarketDrawdown = t.Daily.Market
		b.MaxMarketDrawdownDate = t.CloseDate
	}
}

func (b *Bucket) WinRate() float64 {
	return div(float64(b.Wins), float64(b.Trades))
}

func (b *Bucket) ProfitFactor() float64 {
	return math.Abs(div(b.WinProfit, b.LoseProfit))
}

// Stats is the statistics bundle of one engine run. It is built by
// folding trades in close-date order through Add, then completed by the
// curve calculators.
type Stats struct {
	Trades int
	Wins   int

	streak        int
	MaxWinStreak  int
	MaxLoseStreak int

	RatioSum    float64
	WinRatioSum float64
	TermSum     float64
	WinTermSum  float64
	Profit      float64
	WinProfit   float64

	MaxWinRatio  float64
	MaxLossRatio float64
	MaxWinProfit float64
	MaxLoss      float64

	// Running counts positions still open at the end of their series.
	Running     int
	Instruments int
	Skipped     int

	Budget      float64
	MaxPosition PricePair
	Drawdown    PricePair

	FirstDate time.Time
	LastDate  time.Time

	Years  map[int]*Bucket
	Months map[MonthKey]*Bucket
}

func NewStats() *Stats {
	return &Stats{
		Years:  make(map[int]*Bucket),
		Months: make(map[MonthKey]*Bucket),
	}
}

// Add folds one completed trade into the statistics.
func (s *Stats) Add(t Trade) {
	ratio := t.Ratio()
	profit := t.Profit()
	term := float64(t.HoldingDays)

	s.Trades++
	s.RatioSum += ratio
	s.TermSum += term
	s.Profit += profit

	if profit >= 0 {
		s.Wins++
		if s.streak >= 0 {
			s.streak++
		} else {
			s.streak = 1
		}
		s.MaxWinStreak = max(s.MaxWinStreak, s.streak)
		s.WinRatioSum += ratio
		s.WinTermSum += term
		s.WinProfit += profit
		s.MaxWinRatio = math.Max(s.MaxWinRatio, ratio)
		s.MaxWinProfit = math.Max(s.MaxWinProfit, profit)
	} else {
		if s.streak < 0 {
			s.streak--
		} else {
			s.streak = -1
		}
		s.MaxLoseStreak = max(s.MaxLoseStreak, -s.streak)
		s.MaxLossRatio = math.Min(s.MaxLossRatio, ratio)
		s.MaxLoss = math.Min(s.MaxLoss, profit)
	}

	year := t.CloseDate.Year()
	s.year(year).add(t, ratio, profit)
	s.Months[MonthKey{Year: year, Month: t.CloseDate.Month()}].add(t, ratio, profit)
}

// year returns the bucket for y, creating it and its twelve months on
// first use.
func (s *Stats) year(y int) *Bucket {
	b, ok := s.Years[y]
	if ok {
		return b
	}
	b = &Bucket{}
	s.Years[y] = b
	for m := time.January; m <= time.December; m++ {
		s.Months[MonthKey{Year: y, Month: m}] = &Bucket{}
	}
	return b
}

func (s *Stats) Losses() int {
	return s.Trades - s.Wins
}

func (s *Stats) LoseRatioSum() float64 { return s.RatioSum - s.WinRatioSum }
func (s *Stats) LoseTermSum() float64  { return s.TermSum - s.WinTermSum }
func (s *Stats) LoseProfit() float64   { return s.Profit - s.WinProfit }

func (s *Stats) WinRate() float64  { return div(float64(s.Wins), float64(s.Trades)) }
func (s *Stats) LoseRate() float64 { return div(float64(s.Losses()), float64(s.Trades)) }

func (s *Stats) AvgRatio() float64     { return div(s.RatioSum, float64(s.Trades)) }
func (s *Stats) AvgWinRatio() float64  { return div(s.WinRatioSum, float64(s.Wins)) }
func (s *Stats) AvgLoseRatio() float64 { return div(s.LoseRatioSum(), float64(s.Losses())) }

func (s *Stats) AvgTerm() float64     { return div(s.TermSum, float64(s.Trades)) }
func (s *Stats) AvgWinTerm() float64  { return div(s.WinTermSum, float64(s.Wins)) }
func (s *Stats) AvgLoseTerm() float64 { return div(s.LoseTermSum(), float64(s.Losses())) }

func (s *Stats) AvgProfit() float64     { return div(s.Profit, float64(s.Trades)) }
func (s *Stats) AvgWinProfit() float64  { return div(s.WinProfit, float64(s.Wins)) }
func (s *Stats) AvgLoseProfit() float64 { return div(s.LoseProfit(), float64(s.Losses())) }

// ProfitFactor is total winning profit over the magnitude of total loss.
func (s *Stats) ProfitFactor() float64 {
	return div(s.WinProfit, -s.LoseProfit())
}

// AnnualReturn is the mean profit per active year relative to the budget.
func (s *Stats) AnnualReturn() float64 {
	return div(div(s.Profit, float64(len(s.Years))), s.Budget)
}

// RecentAnnualReturn is AnnualReturn restricted to the latest n years
// that saw trades.
func (s *Stats) RecentAnnualReturn(n int) float64 {
	years := s.SortedYears()
	if n < len(years) {
		years = years[:n]
	}
	var total float64
	for _, y := range years {
		total += s.Years[y].Profit
	}
	return div(div(total, float64(len(years))), s.Budget)
}

// SortedYears lists the years with trades, latest first.
func (s *Stats) SortedYears() []int {
	out := make([]int, 0, len(s.Years))
	for y := range s.Years {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Month returns the bucket of a month of a year that saw trades.
func (s *Stats) Month(year int, m time.Month) *Bucket {
	return s.Months[MonthKey{Year: year, Month: m}]
}

// div returns NaN instead of an infinity or a panic on a zero denominator.
func div(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
