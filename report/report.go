// Package report renders performance statistics as a plain-text report.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rustyeddy/ptsim/market"
	"github.com/rustyeddy/ptsim/perf"
	"github.com/shopspring/decimal"
)

const rule = "--------------------------------------------------"

// Meta names what was replayed.
type Meta struct {
	RunID     string
	System    string
	TimeFrame market.TimeFrame
	Universe  string

	// RecentYears is the window of the recent annual return. Zero means 5.
	RecentYears int
}

// Print writes the summary, the yearly table and one monthly table per
// year, latest year first.
func Print(w io.Writer, meta Meta, s *perf.Stats) {
	recent := meta.RecentYears
	if recent <= 0 {
		recent = 5
	}

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Performance Report")
	fmt.Fprintln(w, "==================================================")
	if meta.RunID != "" {
		fmt.Fprintf(w, "Run ID:                 %s\n", meta.RunID)
	}
	fmt.Fprintf(w, "System:                 %s\n", meta.System)
	fmt.Fprintf(w, "Time Frame:             %s\n", meta.TimeFrame)
	fmt.Fprintf(w, "Universe:               %s\n", meta.Universe)
	fmt.Fprintf(w, "Period:                 %s to %s\n", day(s.FirstDate), day(s.LastDate))
	fmt.Fprintf(w, "Instruments:            %d (%d without prices)\n", s.Instruments, s.Skipped)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Trades:                 %d\n", s.Trades)
	fmt.Fprintf(w, "Wins (rate):            %d (%s)\n", s.Wins, pct(s.WinRate()))
	fmt.Fprintf(w, "Losses (rate):          %d (%s)\n", s.Losses(), pct(s.LoseRate()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Avg Ratio:              %s\n", pct(s.AvgRatio()))
	fmt.Fprintf(w, "Avg Win Ratio:          %s\n", pct(s.AvgWinRatio()))
	fmt.Fprintf(w, "Avg Loss Ratio:         %s\n", pct(s.AvgLoseRatio()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Max Win Ratio:          %s\n", pct(s.MaxWinRatio))
	fmt.Fprintf(w, "Max Loss Ratio:         %s\n", pct(s.MaxLossRatio))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Avg Holding Days:       %s\n", num(s.AvgTerm()))
	fmt.Fprintf(w, "Avg Win Holding Days:   %s\n", num(s.AvgWinTerm()))
	fmt.Fprintf(w, "Avg Loss Holding Days:  %s\n", num(s.AvgLoseTerm()))

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Budget:                 %s\n", money(s.Budget))
	fmt.Fprintf(w, "Max Position (book):    %s\n", money(s.MaxPosition.Book))
	fmt.Fprintf(w, "Max Position (market):  %s\n", money(s.MaxPosition.Market))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Net Profit:             %s\n", money(s.Profit))
	fmt.Fprintf(w, "Gross Profit:           %s\n", money(s.WinProfit))
	fmt.Fprintf(w, "Gross Loss:             %s\n", money(s.LoseProfit()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Avg Profit:             %s\n", money(s.AvgProfit()))
	fmt.Fprintf(w, "Avg Win:                %s\n", money(s.AvgWinProfit()))
	fmt.Fprintf(w, "Avg Loss:               %s\n", money(s.AvgLoseProfit()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Max Win:                %s\n", money(s.MaxWinProfit))
	fmt.Fprintf(w, "Max Loss:               %s\n", money(s.MaxLoss))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Profit Factor:          %s\n", num(s.ProfitFactor()))
	fmt.Fprintf(w, "Max Drawdown (book):    %s\n", money(s.Drawdown.Book))
	fmt.Fprintf(w, "Max Drawdown (market):  %s\n", money(s.Drawdown.Market))

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Running Trades:         %d\n", s.Running)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Annual Return:          %s\n", pct(s.AnnualReturn()))
	fmt.Fprintf(w, "Annual Return (%d yrs):  %s\n", recent, pct(s.RecentAnnualReturn(recent)))
	fmt.Fprintf(w, "Max Win Streak:         %d\n", s.MaxWinStreak)
	fmt.Fprintf(w, "Max Loss Streak:        %d\n", s.MaxLoseStreak)

	years := s.SortedYears()

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Yearly")
	fmt.Fprintf(w, "%-6s %7s %14s %9s %7s %9s %24s\n", "Year", "Trades", "Profit", "WinRate", "PF", "MaxLoss", "MarketDD (date)")
	for _, y := range years {
		b := s.Years[y]
		fmt.Fprintf(w, "%-6d %7d %14s %9s %7s %9s %24s\n",
			y, b.Trades, money(b.Profit), pct(b.WinRate()), num(b.ProfitFactor()), pct(b.MaxLossRatio),
			fmt.Sprintf("%s (%s)", money(b.MaxMarketDrawdown), day(b.MaxMarketDrawdownDate)))
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Monthly")
	for _, y := range years {
		fmt.Fprintf(w, "[%d]\n", y)
		fmt.Fprintf(w, "%-6s %7s %14s %9s %7s %9s\n", "Month", "Trades", "Profit", "WinRate", "PF", "MaxLoss")
		for m := time.December; m >= time.January; m-- {
			b := s.Month(y, m)
			fmt.Fprintf(w, "%-6s %7d %14s %9s %7s %9s\n",
				m.String()[:3], b.Trades, money(b.Profit), pct(b.WinRate()), num(b.ProfitFactor()), pct(b.MaxLossRatio))
		}
	}
}

func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(0)
}

func pct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(market.DateLayout)
}
