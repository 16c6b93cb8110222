package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/ptsim/journal"
	"github.com/rustyeddy/ptsim/market"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded performance runs",
	Long: `Query runs recorded in a SQLite journal.

Subcommands:
  runs   - List recorded runs, newest first
  show   - Print a run as an Org-mode entry
  trades - List the trades of a run
  curve  - Print the cumulative profit curve of a run

Examples:
  ptsim journal runs --db ptsim.db
  ptsim journal show 01HZX3J8Q0C6V4M8Y2T1N5K7RB
  ptsim journal trades 01HZX3J8Q0C6V4M8Y2T1N5K7RB`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a run as an Org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List the trades of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalCurveCmd = &cobra.Command{
	Use:   "curve <run-id>",
	Short: "Print the cumulative profit curve of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalCurve,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalCurveCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./ptsim.db", "path to SQLite journal DB")
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tSYSTEM\tUNIVERSE\tTF\tTRADES\tPROFIT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.0f\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.System, r.Universe, r.TimeFrame, r.Trades, r.Profit)
	}
	return tw.Flush()
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	s, err := run.Org()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(trades) == 0 {
		fmt.Fprintln(out, "No trades found.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tCODE\tSIDE\tOPEN\tCLOSE\tDAYS\tBUY\tSELL\tPROFIT\tRATIO\t")
	for _, t := range trades {
		side := "long"
		if t.Short {
			side = "short"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%.0f\t%.0f\t%.0f\t%.2f%%\t\n",
			t.Seq, t.Code, side, t.OpenDate.Format(market.DateLayout), t.CloseDate.Format(market.DateLayout),
			t.HoldingDays, t.BuyNotional, t.SellNotional, t.Profit, t.Ratio*100)
	}
	return tw.Flush()
}

func runJournalCurve(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	curve, err := j.ListCurve(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("list curve: %w", err)
	}
	for _, p := range curve {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %12.0f %12.0f\n", p.Date.Format(market.DateLayout), p.Market, p.Book)
	}
	return nil
}
