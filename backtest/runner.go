// Package backtest drives a strategy over a historical bar feed and
// accounts for the trades it would have made.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/Adi-UA/SimpleTrader/journal"
	"github.com/Adi-UA/SimpleTrader/market"
	"github.com/Adi-UA/SimpleTrader/pkg/id"
	"github.com/Adi-UA/SimpleTrader/portfolio"
	"github.com/Adi-UA/SimpleTrader/risk"
	"github.com/Adi-UA/SimpleTrader/strategies"
)

// Options controls window sizing for the runner.
type Options struct {
	// ShortPeriod and LongPeriod are the window lengths handed to the
	// strategy. Zero values default to 5 and 20.
	ShortPeriod int
	LongPeriod  int
}

// EquityPoint is one bar's mark-to-market value.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Result summarizes a completed run.
type Result struct {
	EquityCurve []EquityPoint

	Start time.Time
	End   time.Time
	Bars  int

	Trades int
	Buys   int
	Sells  int

	FinalCash     float64
	FinalPosition float64
	FinalEquity   float64
}

// Runner walks a bar feed one bar at a time: record equity, check the
// cooldown gate, ask the strategy for a decision, and execute against the
// portfolio. Bars are processed strictly in order and each bar's effects
// are final before the next bar is considered.
type Runner struct {
	Feed      BarFeed
	Strategy  strategies.Strategy
	Portfolio *portfolio.Portfolio

	// Gate defaults to a 2-day cooldown when nil. Journal defaults to
	// journal.Nop when nil.
	Gate    *risk.Cooldown
	Journal journal.Journal

	Options Options
}

// Run executes the backtest loop until the feed is exhausted or ctx is
// cancelled. Ledger violations and malformed bars abort the run; an
// aborted run's partial effects are already journaled.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if r.Portfolio == nil {
		return Result{}, fmt.Errorf("backtest: Portfolio is required")
	}
	defer r.Feed.Close()

	gate := r.Gate
	if gate == nil {
		gate = risk.NewCooldown(risk.DefaultMinDays)
	}
	jnl := r.Journal
	if jnl == nil {
		jnl = journal.Nop{}
	}

	short := r.Options.ShortPeriod
	if short == 0 {
		short = 5
	}
	long := r.Options.LongPeriod
	if long == 0 {
		long = 20
	}
	if short <= 0 || long <= 0 || short >= long {
		return Result{}, fmt.Errorf("backtest: bad window sizes short=%d long=%d", short, long)
	}

	window := market.NewWindow(long)

	var res Result
	var prev market.Bar

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		bar, ok, err := r.Feed.Next()
		if err != nil {
			return res, fmt.Errorf("backtest: feed: %w", err)
		}
		if !ok {
			break
		}

		if err := market.Validate(prev, bar); err != nil {
			return res, fmt.Errorf("backtest: %w", err)
		}
		prev = bar

		window.Push(bar.Close)

		if res.Start.IsZero() {
			res.Start = bar.Time
		}
		res.End = bar.Time
		res.Bars++

		// Equity is recorded on every bar, traded or not.
		equity := r.Portfolio.MarkToMarket(bar.Close)
		res.EquityCurve = append(res.EquityCurve, EquityPoint{Time: bar.Time, Equity: equity})
		if err := jnl.RecordEquity(journal.EquitySnapshot{
			Time:     bar.Time,
			Cash:     r.Portfolio.Cash(),
			Position: r.Portfolio.Position(),
			Equity:   equity,
		}); err != nil {
			return res, fmt.Errorf("backtest: journal: %w", err)
		}

		// Not enough history yet: no decision on this bar.
		if !window.Full() {
			continue
		}

		if !gate.Eligible(bar.Time) {
			continue
		}

		dec := r.Strategy.Decide(window.Last(short), window.Last(long))
		if dec.Action == strategies.Hold {
			continue
		}
		if dec.Multiplier <= 0 || dec.Multiplier > 1 {
			return res, fmt.Errorf("backtest: strategy %s returned multiplier %v outside (0,1]",
				r.Strategy.Name(), dec.Multiplier)
		}

		switch dec.Action {
		case strategies.Buy:
			quantity := r.Portfolio.Cash() * dec.Multiplier / bar.Close
			if quantity <= 0 {
				continue
			}
			if err := r.Portfolio.ExecuteBuy(quantity, bar.Close); err != nil {
				return res, fmt.Errorf("backtest: %w", err)
			}
			if err := r.recordFill(jnl, "BUY", quantity, bar, dec.Reason); err != nil {
				return res, err
			}
			gate.Record(bar.Time)
			res.Trades++
			res.Buys++

		case strategies.Sell:
			// Selling with nothing held is a no-op, not an error.
			if r.Portfolio.Position() <= 0 {
				continue
			}
			quantity := r.Portfolio.Position() * dec.Multiplier
			if err := r.Portfolio.ExecuteSell(quantity, bar.Close); err != nil {
				return res, fmt.Errorf("backtest: %w", err)
			}
			if err := r.recordFill(jnl, "SELL", quantity, bar, dec.Reason); err != nil {
				return res, err
			}
			gate.Record(bar.Time)
			res.Trades++
			res.Sells++
		}
	}

	res.FinalCash = r.Portfolio.Cash()
	res.FinalPosition = r.Portfolio.Position()
	if res.Bars > 0 {
		// Marked after any trade on the last bar, so this can differ from
		// the last curve point by that bar's fill.
		res.FinalEquity = r.Portfolio.MarkToMarket(prev.Close)
	}

	return res, nil
}

func (r *Runner) recordFill(jnl journal.Journal, side string, quantity float64, bar market.Bar, reason string) error {
	err := jnl.RecordFill(journal.FillRecord{
		FillID:   id.New(),
		Side:     side,
		Quantity: quantity,
		Price:    bar.Close,
		Time:     bar.Time,
		Cash:     r.Portfolio.Cash(),
		Position: r.Portfolio.Position(),
		Reason:   reason,
	})
	if err != nil {
		return fmt.Errorf("backtest: journal: %w", err)
	}
	return nil
}
