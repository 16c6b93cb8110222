package perf

import (
	"context"
	"errors"
	"testing"

	"github.com/rustyeddy/ptsim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrices map[string][]market.PriceBar

func (f fakePrices) Prices(code string) ([]market.PriceBar, error) {
	return f[code], nil
}

type fakeLogs map[string][]market.LogEntry

func (f fakeLogs) Logs(code string) ([]market.LogEntry, error) {
	return f[code], nil
}

type brokenPrices struct{ err error }

func (b brokenPrices) Prices(string) ([]market.PriceBar, error) {
	return nil, b.err
}

func entry(code string, side market.Side, day int, qty uint64, price float64) market.LogEntry {
	return market.LogEntry{Date: d(day), Code: code, Side: side, Quantity: qty, Price: price}
}

// fixture has a long round trip on A, a short round trip on B, an open
// position on C and no prices for D.
func fixture() (fakePrices, fakeLogs, market.Universe) {
	prices := fakePrices{
		"A": barsFrom(10, 11, 12, 10),
		"B": barsFrom(20, 19, 18, 21),
		"C": barsFrom(5, 6, 7, 8),
	}
	logs := fakeLogs{
		"A": {entry("A", market.Buy, 0, 10, 10), entry("A", market.Sell, 2, 10, 12)},
		"B": {entry("B", market.Sell, 0, 5, 20), entry("B", market.Buy, 2, 5, 18)},
		"C": {entry("C", market.Buy, 1, 10, 6)},
	}
	return prices, logs, market.Universe{Name: "test", Codes: []string{"A", "B", "C", "D"}}
}

func TestEngineRun(t *testing.T) {
	t.Parallel()

	prices, logs, u := fixture()
	res, err := NewEngine(prices, logs, Options{}).Run(context.Background(), u)
	require.NoError(t, err)

	s := res.Stats
	assert.Equal(t, 2, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Running)
	assert.Equal(t, 3, s.Instruments)
	assert.Equal(t, 1, s.Skipped)
	assert.InDelta(t, 30.0, s.Profit, 1e-9)
	assert.Equal(t, d(0), s.FirstDate)
	assert.Equal(t, d(3), s.LastDate)

	require.Len(t, res.Trades, 2)
	assert.Equal(t, "A", res.Trades[0].Code)
	assert.Equal(t, "B", res.Trades[1].Code)
	assert.True(t, res.Trades[1].IsShort)

	// A, B and C all accrue on d2: 10 + 5 + 10
	assert.InDelta(t, 25.0, res.Trades[0].Daily.Market, 1e-9)
	assert.InDelta(t, 30.0, res.Trades[0].Daily.Book, 1e-9)

	last, ok := res.Profits.Last()
	require.True(t, ok)
	assert.InDelta(t, 30.0, last.Book, 1e-9)
	assert.LessOrEqual(t, s.Drawdown.Market, 0.0)
	assert.LessOrEqual(t, s.Drawdown.Book, 0.0)
	assert.GreaterOrEqual(t, s.Budget, s.MaxPosition.Book-last.Book)
	assert.Greater(t, s.Budget, 0.0)
}

func TestEngineParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	prices, logs, u := fixture()
	seq, err := NewEngine(prices, logs, Options{Workers: 1}).Run(context.Background(), u)
	require.NoError(t, err)
	par, err := NewEngine(prices, logs, Options{Workers: 4}).Run(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, seq.Trades, par.Trades)
	require.Len(t, par.Profits, len(seq.Profits))
	for i := range seq.Profits {
		assert.Equal(t, seq.Profits[i].Date, par.Profits[i].Date)
		assert.InDelta(t, seq.Profits[i].Market, par.Profits[i].Market, 1e-9)
		assert.InDelta(t, seq.Profits[i].Book, par.Profits[i].Book, 1e-9)
	}
	assert.InDelta(t, seq.Stats.Budget, par.Stats.Budget, 1e-9)
	assert.Equal(t, seq.Stats.MaxPosition, par.Stats.MaxPosition)
	assert.Equal(t, seq.Stats.Drawdown, par.Stats.Drawdown)
	assert.Equal(t, seq.Stats.Running, par.Stats.Running)
}

func TestEngineProgress(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 3} {
		prices, logs, u := fixture()
		ch := make(chan int, 8)
		_, err := NewEngine(prices, logs, Options{Workers: workers, Progress: ch}).Run(context.Background(), u)
		require.NoError(t, err)
		close(ch)

		var got []int
		for p := range ch {
			got = append(got, p)
		}
		require.NotEmpty(t, got)
		assert.IsNonDecreasing(t, got)
		assert.Equal(t, 100, got[len(got)-1])
		assert.LessOrEqual(t, len(got), 3)
	}
}

func TestEngineErrors(t *testing.T) {
	t.Parallel()

	prices, logs, _ := fixture()
	boom := errors.New("disk gone")

	tests := []struct {
		name   string
		prices PriceSource
		logs   LogSource
		codes  []string
		expect error
	}{
		{"no price data", prices, logs, []string{"D", "E"}, ErrNoPriceData},
		{"empty universe", prices, logs, nil, ErrNoPriceData},
		{"only open positions", prices, logs, []string{"C", "D"}, ErrNoTrades},
		{
			"entry off calendar",
			prices,
			fakeLogs{"A": {entry("A", market.Buy, 9, 1, 10)}},
			[]string{"A"},
			ErrInvalidLog,
		},
		{"source failure", brokenPrices{err: boom}, logs, []string{"A"}, boom},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := NewEngine(tt.prices, tt.logs, Options{}).
				Run(context.Background(), market.Universe{Name: "u", Codes: tt.codes})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.expect)
			assert.False(t, IsCancelled(err))
		})
	}
}

func TestEngineCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 4} {
		prices, logs, u := fixture()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := NewEngine(prices, logs, Options{Workers: workers}).Run(ctx, u)
		assert.Nil(t, res)
		assert.True(t, IsCancelled(err))
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestEngineCancelledMidRun(t *testing.T) {
	t.Parallel()

	prices, logs, u := fixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan int)
	go func() {
		<-ch
		cancel()
	}()

	res, err := NewEngine(prices, logs, Options{Progress: ch}).Run(ctx, u)
	assert.Nil(t, res)
	assert.True(t, IsCancelled(err))
}
