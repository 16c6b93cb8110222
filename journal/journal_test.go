package journal

import (
	"time"

	"github.com/rustyeddy/ptsim/perf"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleResult() *perf.Result {
	s := perf.NewStats()
	trades := []perf.Trade{
		{Code: "7203", OpenDate: day(1, 4), CloseDate: day(1, 9), HoldingDays: 5, BuyNotional: 1000, SellNotional: 1100, Daily: perf.PricePair{Market: 40, Book: 100}},
		{Code: "6758", IsShort: true, OpenDate: day(1, 5), CloseDate: day(1, 12), HoldingDays: 7, BuyNotional: 530, SellNotional: 500, Daily: perf.PricePair{Market: -25, Book: -30}},
	}
	for _, t := range trades {
		s.Add(t)
	}
	s.Instruments = 2
	s.Budget = 1500
	s.FirstDate = day(1, 4)
	s.LastDate = day(1, 12)
	s.Drawdown = perf.PricePair{Market: -60, Book: -30}

	return &perf.Result{
		Stats:  s,
		Trades: trades,
		Profits: perf.Series{
			{Date: day(1, 4), PricePair: perf.PricePair{}},
			{Date: day(1, 9), PricePair: perf.PricePair{Market: 55, Book: 100}},
			{Date: day(1, 12), PricePair: perf.PricePair{Market: 70, Book: 70}},
		},
	}
}

func sampleRun(id string, res *perf.Result) Run {
	run := Run{
		RunID:     id,
		Created:   time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		System:    "breakout",
		Universe:  "core30",
		TimeFrame: "daily",
	}
	run.Fill(res.Stats)
	return run
}
