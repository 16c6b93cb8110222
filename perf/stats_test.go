package perf

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closed builds a trade with the given profit closed on date. Buy notional
// is fixed at 1000 so the ratio is profit/1000.
func closed(date time.Time, profit float64, days int) Trade {
	return Trade{
		Code:         "X",
		OpenDate:     date.AddDate(0, 0, -days),
		CloseDate:    date,
		HoldingDays:  days,
		BuyNotional:  1000,
		SellNotional: 1000 + profit,
	}
}

func TestTradeRatio(t *testing.T) {
	t.Parallel()

	long := Trade{BuyNotional: 100, SellNotional: 120}
	assert.InDelta(t, 0.2, long.Ratio(), 1e-9)
	assert.True(t, long.Win())

	short := Trade{IsShort: true, BuyNotional: 90, SellNotional: 100}
	assert.InDelta(t, 0.1, short.Ratio(), 1e-9)
	assert.InDelta(t, 10.0, short.Profit(), 1e-9)

	loss := Trade{IsShort: true, BuyNotional: 110, SellNotional: 100}
	assert.False(t, loss.Win())
	assert.Less(t, loss.Ratio(), 0.0)
}

func TestStatsStreaks(t *testing.T) {
	t.Parallel()

	s := NewStats()
	for i, p := range []float64{1, 2, -1, -1, -1, 1} {
		s.Add(closed(d(i), p, 1))
	}
	assert.Equal(t, 2, s.MaxWinStreak)
	assert.Equal(t, 3, s.MaxLoseStreak)
	assert.Equal(t, 6, s.Trades)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 3, s.Losses())
}

func TestStatsBreakEvenIsWin(t *testing.T) {
	t.Parallel()

	s := NewStats()
	s.Add(closed(d(0), -5, 1))
	s.Add(closed(d(1), 0, 1))
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.MaxWinStreak)
	assert.Equal(t, 1, s.MaxLoseStreak)
}

func TestStatsAggregates(t *testing.T) {
	t.Parallel()

	s := NewStats()
	s.Add(closed(d(0), 100, 2))
	s.Add(closed(d(1), -50, 4))
	s.Add(closed(d(2), 200, 6))

	assert.InDelta(t, 250.0, s.Profit, 1e-9)
	assert.InDelta(t, 300.0, s.WinProfit, 1e-9)
	assert.InDelta(t, -50.0, s.LoseProfit(), 1e-9)
	assert.InDelta(t, 6.0, s.ProfitFactor(), 1e-9)
	assert.InDelta(t, 2.0/3.0, s.WinRate(), 1e-9)
	assert.InDelta(t, 1.0/3.0, s.LoseRate(), 1e-9)
	assert.InDelta(t, 4.0, s.AvgTerm(), 1e-9)
	assert.InDelta(t, 4.0, s.AvgWinTerm(), 1e-9)
	assert.InDelta(t, 4.0, s.AvgLoseTerm(), 1e-9)
	assert.InDelta(t, 0.15, s.AvgWinRatio(), 1e-9)
	assert.InDelta(t, -0.05, s.AvgLoseRatio(), 1e-9)
	assert.InDelta(t, 150.0, s.AvgWinProfit(), 1e-9)
	assert.InDelta(t, -50.0, s.AvgLoseProfit(), 1e-9)
	assert.InDelta(t, 0.2, s.MaxWinRatio, 1e-9)
	assert.InDelta(t, -0.05, s.MaxLossRatio, 1e-9)
	assert.InDelta(t, 200.0, s.MaxWinProfit, 1e-9)
	assert.InDelta(t, -50.0, s.MaxLoss, 1e-9)
}

func TestStatsZeroDenominatorsAreNaN(t *testing.T) {
	t.Parallel()

	empty := NewStats()
	for name, v := range map[string]float64{
		"win rate":      empty.WinRate(),
		"avg ratio":     empty.AvgRatio(),
		"avg term":      empty.AvgTerm(),
		"avg profit":    empty.AvgProfit(),
		"annual return": empty.AnnualReturn(),
		"recent return": empty.RecentAnnualReturn(5),
	} {
		assert.True(t, math.IsNaN(v), name)
	}

	winsOnly := NewStats()
	winsOnly.Add(closed(d(0), 10, 1))
	assert.True(t, math.IsNaN(winsOnly.AvgLoseRatio()))
	assert.True(t, math.IsNaN(winsOnly.ProfitFactor()))
	assert.True(t, math.IsNaN(winsOnly.AnnualReturn()), "budget not set")
}

func TestStatsBuckets(t *testing.T) {
	t.Parallel()

	s := NewStats()
	s.Budget = 1000

	t1 := closed(time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC), 100, 1)
	t2 := closed(time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC), -40, 1)
	t2.Daily = PricePair{Market: -70}
	t3 := closed(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), 20, 1)
	t3.Daily = PricePair{Market: -10}
	t4 := closed(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 60, 1)
	for _, tr := range []Trade{t1, t2, t3, t4} {
		s.Add(tr)
	}

	assert.Equal(t, []int{2024, 2023, 2022}, s.SortedYears())
	assert.Len(t, s.Months, 36, "every active year carries twelve months")

	y := s.Years[2023]
	require.NotNil(t, y)
	assert.Equal(t, 2, y.Trades)
	assert.Equal(t, 1, y.Wins)
	assert.InDelta(t, -20.0, y.Profit, 1e-9)
	assert.InDelta(t, 0.5, y.WinRate(), 1e-9)
	assert.InDelta(t, 0.5, y.ProfitFactor(), 1e-9)
	assert.InDelta(t, -0.04, y.MaxLossRatio, 1e-9)
	assert.InDelta(t, -70.0, y.MaxMarketDrawdown, 1e-9)
	assert.Equal(t, t2.CloseDate, y.MaxMarketDrawdownDate)

	idle := s.Month(2023, time.May)
	require.NotNil(t, idle)
	assert.Zero(t, idle.Trades)
	assert.True(t, math.IsNaN(idle.WinRate()))
	assert.Equal(t, 1, s.Month(2023, time.July).Trades)
	assert.Nil(t, s.Month(2021, time.January))

	assert.InDelta(t, (140.0/3)/1000, s.AnnualReturn(), 1e-9)
	assert.InDelta(t, (40.0/2)/1000, s.RecentAnnualReturn(2), 1e-9)
	assert.InDelta(t, s.AnnualReturn(), s.RecentAnnualReturn(5), 1e-9)
}
