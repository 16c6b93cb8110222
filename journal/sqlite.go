package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/ptsim/perf"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordRun stores the run summary, its trades and its cumulative curve
// in one transaction.
func (j *SQLite) RecordRun(ctx context.Context, run Run, res *perf.Result) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, system, universe, time_frame, instruments, skipped,
		 start_date, end_date, trades, wins, losses, running, profit, win_rate,
		 profit_factor, budget, annual_return, max_drawdown, max_market_drawdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created.UTC().Format(time.RFC3339), run.System, run.Universe, run.TimeFrame,
		run.Instruments, run.Skipped, formatDay(run.Start), formatDay(run.End),
		run.Trades, run.Wins, run.Losses, run.Running, run.Profit, nullFloat(run.WinRate),
		nullFloat(run.ProfitFactor), run.Budget, nullFloat(run.AnnualReturn),
		run.MaxDrawdown, run.MaxMarketDrawdown,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if res != nil {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO trades
			(run_id, seq, code, short, open_date, close_date, holding_days,
			 buy_notional, sell_notional, profit, ratio, daily_market, daily_book)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range res.Trades {
			r := tradeRecord(run.RunID, i+1, t)
			if _, err := stmt.ExecContext(ctx,
				r.RunID, r.Seq, r.Code, r.Short, formatDay(r.OpenDate), formatDay(r.CloseDate),
				r.HoldingDays, r.BuyNotional, r.SellNotional, r.Profit, nullFloat(r.Ratio),
				r.DailyMarket, r.DailyBook,
			); err != nil {
				return fmt.Errorf("insert trade %d: %w", r.Seq, err)
			}
		}

		curve, err := tx.PrepareContext(ctx, `INSERT INTO curve (run_id, date, market, book) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer curve.Close()

		for _, p := range res.Profits {
			if _, err := curve.ExecContext(ctx, run.RunID, formatDay(p.Date), p.Market, p.Book); err != nil {
				return fmt.Errorf("insert curve %s: %w", formatDay(p.Date), err)
			}
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// nullFloat stores NaN as NULL.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
