// journal/journal.go
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/ptsim/market"
	"github.com/rustyeddy/ptsim/perf"
)

// Run is the summary row of one performance run.
type Run struct {
	RunID     string
	Created   time.Time
	System    string
	Universe  string
	TimeFrame string

	Instruments int
	Skipped     int

	Start time.Time
	End   time.Time

	Trades  int
	Wins    int
	Losses  int
	Running int

	Profit       float64
	WinRate      float64
	ProfitFactor float64
	Budget       float64
	AnnualReturn float64

	// Drawdowns of the cumulative profit curve, both <= 0.
	MaxDrawdown       float64
	MaxMarketDrawdown float64

	OrgPath string
	Notes   []string
}

// Fill copies the headline figures of s into the run.
func (r *Run) Fill(s *perf.Stats) {
	r.Instruments = s.Instruments
	r.Skipped = s.Skipped
	r.Start = s.FirstDate
	r.End = s.LastDate
	r.Trades = s.Trades
	r.Wins = s.Wins
	r.Losses = s.Losses()
	r.Running = s.Running
	r.Profit = s.Profit
	r.WinRate = s.WinRate()
	r.ProfitFactor = s.ProfitFactor()
	r.Budget = s.Budget
	r.AnnualReturn = s.AnnualReturn()
	r.MaxDrawdown = s.Drawdown.Book
	r.MaxMarketDrawdown = s.Drawdown.Market
}

// TradeRecord is one completed trade of a run.
type TradeRecord struct {
	RunID        string
	Seq          int
	Code         string
	Short        bool
	OpenDate     time.Time
	CloseDate    time.Time
	HoldingDays  int
	BuyNotional  float64
	SellNotional float64
	Profit       float64
	Ratio        float64
	DailyMarket  float64
	DailyBook    float64
}

func tradeRecord(runID string, seq int, t perf.Trade) TradeRecord {
	return TradeRecord{
		RunID:        runID,
		Seq:          seq,
		Code:         t.Code,
		Short:        t.IsShort,
		OpenDate:     t.OpenDate,
		CloseDate:    t.CloseDate,
		HoldingDays:  t.HoldingDays,
		BuyNotional:  t.BuyNotional,
		SellNotional: t.SellNotional,
		Profit:       t.Profit(),
		Ratio:        t.Ratio(),
		DailyMarket:  t.Daily.Market,
		DailyBook:    t.Daily.Book,
	}
}

// CurvePoint is one date of the cumulative profit curve.
type CurvePoint struct {
	Date   time.Time
	Market float64
	Book   float64
}

type Journal interface {
	RecordRun(ctx context.Context, run Run, res *perf.Result) error
	Close() error
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(market.DateLayout)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return market.ParseDay(s)
}
