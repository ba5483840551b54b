package cmd

import (
	"context"
	"fmt"

	"github.com/Adi-UA/SimpleTrader/backtest"
	"github.com/Adi-UA/SimpleTrader/config"
	"github.com/Adi-UA/SimpleTrader/journal"
	"github.com/Adi-UA/SimpleTrader/portfolio"
	"github.com/Adi-UA/SimpleTrader/risk"
	"github.com/Adi-UA/SimpleTrader/strategies"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy against a daily bar CSV",
	Long: `Backtest runs a trading strategy against historical daily bars.

Supported strategies:
  - noop: Does nothing (baseline test)
  - sma-cross: short/long moving-average comparison

Example:
  simpletrader backtest --bars data/spy.csv --strategy sma-cross --cash 10000`,
	RunE: runBacktest,
}

var (
	btBarsPath   string
	btConfigPath string
	btCash       float64
	btStrategy   string
	btShort      int
	btLong       int
	btMultiplier float64
	btCooldown   int
	btJournal    string
	btDBPath     string
	btFillsPath  string
	btEquityPath string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "b", "", "path to daily bar CSV (date,close) (required)")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "config file; flags below override it")
	backtestCmd.Flags().Float64Var(&btCash, "cash", 10_000, "starting cash")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "sma-cross", "strategy name (noop, sma-cross)")
	backtestCmd.Flags().IntVar(&btShort, "short", 5, "short window length in bars")
	backtestCmd.Flags().IntVar(&btLong, "long", 20, "long window length in bars")
	backtestCmd.Flags().Float64VarP(&btMultiplier, "multiplier", "m", 0.5, "fraction of cash/position traded per signal (0,1]")
	backtestCmd.Flags().IntVar(&btCooldown, "cooldown", risk.DefaultMinDays, "minimum calendar days between executed trades")
	backtestCmd.Flags().StringVarP(&btJournal, "journal", "j", "none", "journal type (none, csv, sqlite)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "./backtest.sqlite", "path to SQLite journal DB")
	backtestCmd.Flags().StringVar(&btFillsPath, "fills", "./fills.csv", "path to fills CSV (journal=csv)")
	backtestCmd.Flags().StringVar(&btEquityPath, "equity", "./equity.csv", "path to equity CSV (journal=csv)")

	backtestCmd.MarkFlagRequired("bars")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if btConfigPath != "" {
		loaded, err := config.LoadFromFile(btConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(cmd, cfg)

	strat, err := strategies.ByName(cfg.Strategy.Name,
		cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod, cfg.Strategy.Multiplier)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer jnl.Close()

	feed, err := backtest.NewCSVBarFeed(btBarsPath)
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	runner := &backtest.Runner{
		Feed:      feed,
		Strategy:  strat,
		Portfolio: portfolio.New(cfg.Account.StartingCash),
		Gate:      risk.NewCooldown(cfg.Gate.MinIntervalDays),
		Journal:   jnl,
		Options: backtest.Options{
			ShortPeriod: cfg.Strategy.ShortPeriod,
			LongPeriod:  cfg.Strategy.LongPeriod,
		},
	}

	fmt.Printf("Running backtest with strategy: %s\n", strat.Name())
	fmt.Printf("  Bars: %s\n", btBarsPath)
	fmt.Printf("  Starting cash: $%.2f\n\n", cfg.Account.StartingCash)

	res, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	m := backtest.ComputeMetrics(res.EquityCurve)

	fmt.Printf("Backtest Complete!\n")
	fmt.Printf("  Bars: %d (%s to %s)\n", res.Bars,
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
	fmt.Printf("  Trades: %d (%d buys, %d sells)\n", res.Trades, res.Buys, res.Sells)
	fmt.Printf("  Final Cash: $%.2f\n", res.FinalCash)
	fmt.Printf("  Final Position: %.4f units\n", res.FinalPosition)
	fmt.Printf("  Final Equity: $%.2f\n", res.FinalEquity)
	fmt.Printf("  Total Return: %.2f%%\n", m.TotalReturn*100)
	fmt.Printf("  Max Drawdown: %.2f%%\n", m.MaxDrawdown*100)

	return nil
}

// applyFlags overrides config values with any flags the user set
// explicitly, so a config file and ad-hoc flags compose.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("cash") {
		cfg.Account.StartingCash = btCash
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy.Name = btStrategy
	}
	if cmd.Flags().Changed("short") {
		cfg.Strategy.ShortPeriod = btShort
	}
	if cmd.Flags().Changed("long") {
		cfg.Strategy.LongPeriod = btLong
	}
	if cmd.Flags().Changed("multiplier") {
		cfg.Strategy.Multiplier = btMultiplier
	}
	if cmd.Flags().Changed("cooldown") {
		cfg.Gate.MinIntervalDays = btCooldown
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal.Type = btJournal
	}
	if cmd.Flags().Changed("db") {
		cfg.Journal.DBPath = btDBPath
	}
	if cmd.Flags().Changed("fills") {
		cfg.Journal.FillsFile = btFillsPath
	}
	if cmd.Flags().Changed("equity") {
		cfg.Journal.EquityFile = btEquityPath
	}
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(jc.FillsFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
