package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/ptsim/config"
	"github.com/rustyeddy/ptsim/internal/logging"
	"github.com/rustyeddy/ptsim/journal"
	"github.com/rustyeddy/ptsim/perf"
	"github.com/rustyeddy/ptsim/pkg/id"
	"github.com/rustyeddy/ptsim/pricing"
	"github.com/rustyeddy/ptsim/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Replay an execution log and report performance",
	Long: `Perf replays every instrument of the configured universe against its
price bars, prints the performance report and records the run in the
configured journal.

Press Ctrl-C to cancel a run; nothing is reported or recorded.

Example:
  ptsim perf -f run.yaml --workers 8`,
	Args: cobra.NoArgs,
	RunE: runPerf,
}

var (
	perfConfigPath string
	perfWorkers    int
	perfQuiet      bool
)

func init() {
	rootCmd.AddCommand(perfCmd)

	perfCmd.Flags().StringVarP(&perfConfigPath, "file", "f", "", "path to config file (required)")
	perfCmd.Flags().IntVarP(&perfWorkers, "workers", "w", 0, "instruments replayed concurrently (overrides engine.workers)")
	perfCmd.Flags().BoolVarP(&perfQuiet, "quiet", "q", false, "hide the progress bar")
	perfCmd.MarkFlagRequired("file")
}

func runPerf(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadFromFile(perfConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Engine.Workers = perfWorkers
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	u, err := cfg.LoadUniverse()
	if err != nil {
		return err
	}
	book, err := journal.LoadLogFile(cfg.Data.LogFile)
	if err != nil {
		return fmt.Errorf("load log: %w", err)
	}
	prices := pricing.Dir{Path: cfg.Data.PricesDir, TimeFrame: cfg.Frame()}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := perf.Options{Workers: cfg.Engine.Workers, Logger: log}
	finish := func() {}
	if !perfQuiet {
		ch := make(chan int)
		done := make(chan struct{})
		opts.Progress = ch
		go drawProgress(cmd.ErrOrStderr(), ch, done)
		finish = func() {
			close(ch)
			<-done
		}
	}

	log.Info("performance run starting",
		zap.String("system", cfg.System),
		zap.String("universe", u.Name),
		zap.Int("instruments", len(u.Codes)),
		zap.Int("executions", book.Len()),
		zap.Int("workers", cfg.Engine.Workers),
	)

	res, err := perf.NewEngine(prices, book, opts).Run(ctx, u)
	finish()
	out := cmd.OutOrStdout()
	if perf.IsCancelled(err) {
		fmt.Fprintln(out, "cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	run := journal.Run{
		RunID:     id.New(),
		Created:   time.Now().UTC(),
		System:    cfg.System,
		Universe:  u.Name,
		TimeFrame: cfg.Frame().String(),
		OrgPath:   cfg.Journal.OrgFile,
	}
	run.Fill(res.Stats)

	report.Print(out, report.Meta{
		RunID:       run.RunID,
		System:      cfg.System,
		TimeFrame:   cfg.Frame(),
		Universe:    u.Name,
		RecentYears: cfg.Report.RecentYears,
	}, res.Stats)

	if err := record(ctx, cfg, run, res); err != nil {
		return fmt.Errorf("journal run %s: %w", run.RunID, err)
	}
	log.Info("run recorded", zap.String("run_id", run.RunID), zap.String("journal", cfg.Journal.Type))
	return nil
}

func record(ctx context.Context, cfg *config.Config, run journal.Run, res *perf.Result) error {
	var (
		j   journal.Journal
		err error
	)
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.CurveFile)
	}
	if err != nil {
		return err
	}
	if j != nil {
		err = j.RecordRun(ctx, run, res)
		err = errors.Join(err, j.Close())
		if err != nil {
			return err
		}
	}

	if run.OrgPath != "" {
		return run.WriteOrg("")
	}
	return nil
}

func drawProgress(w io.Writer, ch <-chan int, done chan<- struct{}) {
	defer close(done)

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Replaying instruments..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	for pct := range ch {
		_ = bar.Set(pct)
	}
	_ = bar.Close()
}
