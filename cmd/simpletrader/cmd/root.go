package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simpletrader",
	Short: "A rules-based trading strategy backtester for daily bars",
	Long: `SimpleTrader simulates the historical performance of a rules-based
trading strategy against a single instrument's daily close prices.

It provides tools for:
  - Backtesting moving-average strategies over daily bar CSVs
  - Cooldown gating to limit trade frequency
  - Cash/position ledger accounting with an equity curve per bar
  - Journaling fills and equity to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
