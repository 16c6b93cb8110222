package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const runColumns = `run_id, created, system, universe, time_frame, instruments, skipped,
	start_date, end_date, trades, wins, losses, running, profit, win_rate,
	profit_factor, budget, annual_return, max_drawdown, max_market_drawdown`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run                            Run
		created, start, end            string
		winRate, profitFactor, annualR sql.NullFloat64
	)
	err := s.Scan(
		&run.RunID, &created, &run.System, &run.Universe, &run.TimeFrame,
		&run.Instruments, &run.Skipped, &start, &end,
		&run.Trades, &run.Wins, &run.Losses, &run.Running, &run.Profit, &winRate,
		&profitFactor, &run.Budget, &annualR, &run.MaxDrawdown, &run.MaxMarketDrawdown,
	)
	if err != nil {
		return Run{}, err
	}
	if run.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return Run{}, fmt.Errorf("run %s created: %w", run.RunID, err)
	}
	if run.Start, err = parseDay(start); err != nil {
		return Run{}, err
	}
	if run.End, err = parseDay(end); err != nil {
		return Run{}, err
	}
	run.WinRate = fromNull(winRate)
	run.ProfitFactor = fromNull(profitFactor)
	run.AnnualReturn = fromNull(annualR)
	return run, nil
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns every run, newest first.
func (j *SQLite) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the trades of a run in aggregation order.
func (j *SQLite) ListTrades(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, code, short, open_date, close_date, holding_days,
		       buy_notional, sell_notional, profit, ratio, daily_market, daily_book
		FROM trades
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec                 TradeRecord
			openDate, closeDate string
			ratio               sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.RunID, &rec.Seq, &rec.Code, &rec.Short, &openDate, &closeDate, &rec.HoldingDays,
			&rec.BuyNotional, &rec.SellNotional, &rec.Profit, &ratio, &rec.DailyMarket, &rec.DailyBook,
		); err != nil {
			return nil, err
		}
		if rec.OpenDate, err = parseDay(openDate); err != nil {
			return nil, err
		}
		if rec.CloseDate, err = parseDay(closeDate); err != nil {
			return nil, err
		}
		rec.Ratio = fromNull(ratio)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCurve returns the cumulative profit curve of a run in date order.
func (j *SQLite) ListCurve(ctx context.Context, runID string) ([]CurvePoint, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT date, market, book
		FROM curve
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CurvePoint
	for rows.Next() {
		var (
			p    CurvePoint
			date string
		)
		if err := rows.Scan(&date, &p.Market, &p.Book); err != nil {
			return nil, err
		}
		if p.Date, err = parseDay(date); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
