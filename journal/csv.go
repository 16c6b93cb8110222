package journal

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strconv"

	"github.com/rustyeddy/ptsim/perf"
)

var (
	tradeHeader = []string{"run_id", "seq", "code", "short", "open_date", "close_date", "holding_days", "buy_notional", "sell_notional", "profit", "ratio"}
	curveHeader = []string{"run_id", "date", "market", "book"}
)

// CSV writes trades and the cumulative profit curve to two files.
type CSV struct {
	trades *csv.Writer
	curve  *csv.Writer
	tf, cf *os.File
}

func NewCSV(tradesPath, curvePath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	cf, err := os.Create(curvePath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{trades: csv.NewWriter(tf), curve: csv.NewWriter(cf), tf: tf, cf: cf}
	if err := j.trades.Write(tradeHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.curve.Write(curveHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordRun(ctx context.Context, run Run, res *perf.Result) error {
	if res == nil {
		return nil
	}
	for i, t := range res.Trades {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := tradeRecord(run.RunID, i+1, t)
		err := j.trades.Write([]string{
			r.RunID,
			strconv.Itoa(r.Seq),
			r.Code,
			strconv.FormatBool(r.Short),
			formatDay(r.OpenDate),
			formatDay(r.CloseDate),
			strconv.Itoa(r.HoldingDays),
			f(r.BuyNotional),
			f(r.SellNotional),
			f(r.Profit),
			f(r.Ratio),
		})
		if err != nil {
			return err
		}
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}

	for _, p := range res.Profits {
		if err := j.curve.Write([]string{run.RunID, formatDay(p.Date), f(p.Market), f(p.Book)}); err != nil {
			return err
		}
	}
	j.curve.Flush()
	return j.curve.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	j.curve.Flush()
	return errors.Join(j.trades.Error(), j.curve.Error(), j.tf.Close(), j.cf.Close())
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
