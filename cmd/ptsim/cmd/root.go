package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ptsim",
	Short: "Performance analytics for trading system simulations",
	Long: `ptsim replays a trading system's execution log against daily or weekly
price bars and reports how the system performed.

It provides tools for:
  - Replaying a universe of instruments, sequentially or in parallel
  - Win/loss, ratio, holding period and streak statistics
  - Budget, maximum position and drawdown of the profit curve
  - Yearly and monthly breakdowns
  - Journaling runs, trades and profit curves to SQLite or CSV`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
