package perf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rustyeddy/ptsim/market"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PriceSource yields an instrument's bars in date order. A nil slice with
// a nil error means the instrument has no series.
type PriceSource interface {
	Prices(code string) ([]market.PriceBar, error)
}

// LogSource yields an instrument's executions in date order.
type LogSource interface {
	Logs(code string) ([]market.LogEntry, error)
}

type Options struct {
	// Workers > 1 replays instruments concurrently into per-instrument
	// curves that are merged afterwards.
	Workers int

	// Progress receives the percentage of instruments replayed.
	Progress chan<- int

	Logger *zap.Logger
}

// Result is the outcome of a completed run.
type Result struct {
	Stats *Stats

	// Profits is the cumulative profit curve.
	Profits Series

	// Trades are the completed trades in the order they were aggregated.
	Trades []Trade
}

type Engine struct {
	prices PriceSource
	logs   LogSource
	opts   Options
	log    *zap.Logger

	progressMu sync.Mutex
	reported   int
}

func NewEngine(prices PriceSource, logs LogSource, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{prices: prices, logs: logs, opts: opts, log: log}
}

type instrument struct {
	code string
	bars []market.PriceBar
	logs []market.LogEntry
}

// Run replays every instrument of the universe and computes the statistics.
// A cancelled context yields an error matching both ErrCancelled and the
// context's error, and no partial result.
func (e *Engine) Run(ctx context.Context, u market.Universe) (*Result, error) {
	e.reported = 0

	insts, err := e.load(u)
	if err != nil {
		return nil, err
	}

	profits, values := NewCurve(), NewCurve()
	results, err := e.replay(ctx, insts, profits, values)
	if err != nil {
		if ctx.Err() != nil {
			e.log.Info("performance run cancelled", zap.String("universe", u.Name))
			return nil, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
		return nil, err
	}

	stats := NewStats()
	stats.Instruments = len(insts)
	stats.Skipped = len(u.Codes) - len(insts)

	var trades []Trade
	for _, r := range results {
		trades = append(trades, r.trades...)
		if r.running {
			stats.Running++
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CloseDate.Before(trades[j].CloseDate)
	})
	for i := range trades {
		trades[i].Daily, _ = profits.Get(trades[i].CloseDate)
		stats.Add(trades[i])
	}
	if stats.Trades == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTrades, u.Name)
	}

	positionValues := values.BookAccumulated()
	cumulative := profits.Accumulated()
	stats.MaxPosition = MaxPosition(positionValues)
	stats.Budget = Budget(cumulative, positionValues)
	stats.Drawdown = Drawdown(cumulative)
	if len(cumulative) > 0 {
		stats.FirstDate = cumulative[0].Date
		stats.LastDate = cumulative[len(cumulative)-1].Date
	}

	e.log.Info("performance run complete",
		zap.String("universe", u.Name),
		zap.Int("instruments", stats.Instruments),
		zap.Int("skipped", stats.Skipped),
		zap.Int("trades", stats.Trades),
		zap.Int("running", stats.Running),
		zap.Float64("profit", stats.Profit),
	)

	return &Result{Stats: stats, Profits: cumulative, Trades: trades}, nil
}

// load materializes bars and logs for every listed instrument that has a
// price series.
func (e *Engine) load(u market.Universe) ([]instrument, error) {
	var out []instrument
	for _, code := range u.Codes {
		bars, err := e.prices.Prices(code)
		if err != nil {
			return nil, fmt.Errorf("prices %s: %w", code, err)
		}
		if len(bars) == 0 {
			e.log.Debug("no price series, skipping", zap.String("code", code))
			continue
		}
		if !sort.SliceIsSorted(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) }) {
			bars = append([]market.PriceBar(nil), bars...)
			sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
		}

		logs, err := e.logs.Logs(code)
		if err != nil {
			return nil, fmt.Errorf("logs %s: %w", code, err)
		}
		if err := validateLog(code, bars, logs); err != nil {
			return nil, err
		}
		out = append(out, instrument{code: code, bars: bars, logs: logs})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoPriceData, u.Name)
	}
	return out, nil
}

func (e *Engine) replay(ctx context.Context, insts []instrument, profits, values *Curve) ([]instrumentResult, error) {
	results := make([]instrumentResult, len(insts))
	total := len(insts)

	if e.opts.Workers <= 1 {
		for i, inst := range insts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := replayInstrument(ctx, inst.code, inst.bars, inst.logs, profits, values)
			if err != nil {
				return nil, err
			}
			results[i] = r
			e.log.Debug("replayed", zap.String("code", inst.code), zap.Int("trades", len(r.trades)))
			if err := e.progress(ctx, i+1, total); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	partials := make([][2]*Curve, len(insts))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, inst := range insts {
		i, inst := i, inst
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, v := NewCurve(), NewCurve()
			r, err := replayInstrument(gctx, inst.code, inst.bars, inst.logs, p, v)
			if err != nil {
				return err
			}
			results[i] = r
			partials[i] = [2]*Curve{p, v}
			e.log.Debug("replayed", zap.String("code", inst.code), zap.Int("trades", len(r.trades)))

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			return e.progress(gctx, n, total)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, c := range partials {
		profits.Merge(c[0])
		values.Merge(c[1])
	}
	return results, nil
}

// progress reports done/total as a percentage. Reports never decrease.
func (e *Engine) progress(ctx context.Context, done, total int) error {
	if e.opts.Progress == nil || total == 0 {
		return nil
	}
	pct := 100 * done / total

	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	if pct < e.reported {
		return nil
	}
	e.reported = pct

	select {
	case e.opts.Progress <- pct:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsCancelled reports whether err came from a cancelled run.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
