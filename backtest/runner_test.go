package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Adi-UA/SimpleTrader/journal"
	"github.com/Adi-UA/SimpleTrader/market"
	"github.com/Adi-UA/SimpleTrader/portfolio"
	"github.com/Adi-UA/SimpleTrader/risk"
	"github.com/Adi-UA/SimpleTrader/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// flatThen builds a daily series: flatN bars at 100, then each later bar
// moves by step (positive for a rising tail, negative for falling).
func flatThen(flatN, totalN int, step float64) []market.Bar {
	bars := make([]market.Bar, 0, totalN)
	for i := 0; i < totalN; i++ {
		close := 100.0
		if i >= flatN {
			close = 100 + step*float64(i-flatN+1)
		}
		bars = append(bars, market.Bar{Time: day(i), Close: close})
	}
	return bars
}

// memJournal records everything in memory.
type memJournal struct {
	fills  []journal.FillRecord
	equity []journal.EquitySnapshot
	closed bool
}

func (j *memJournal) RecordFill(r journal.FillRecord) error       { j.fills = append(j.fills, r); return nil }
func (j *memJournal) RecordEquity(e journal.EquitySnapshot) error { j.equity = append(j.equity, e); return nil }
func (j *memJournal) Close() error                                { j.closed = true; return nil }

// errorFeed returns an error on Next().
type errorFeed struct{}

func (errorFeed) Next() (market.Bar, bool, error) { return market.Bar{}, false, errors.New("mock error") }
func (errorFeed) Close() error                    { return nil }

// spyStrategy wraps another strategy and records every call.
type spyStrategy struct {
	inner     strategies.Strategy
	shortLens []int
	longLens  []int
}

func (s *spyStrategy) Name() string { return "spy" }

func (s *spyStrategy) Decide(short, long []float64) strategies.Decision {
	s.shortLens = append(s.shortLens, len(short))
	s.longLens = append(s.longLens, len(long))
	return s.inner.Decide(short, long)
}

// fixedStrategy always returns the same decision.
type fixedStrategy struct{ dec strategies.Decision }

func (f fixedStrategy) Name() string                                   { return "fixed" }
func (f fixedStrategy) Decide(short, long []float64) strategies.Decision { return f.dec }

func TestRunner_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing feed", func(t *testing.T) {
		r := &Runner{Strategy: strategies.Noop{}, Portfolio: portfolio.New(1000)}
		_, err := r.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, "backtest: Feed is required", err.Error())
	})

	t.Run("missing strategy", func(t *testing.T) {
		r := &Runner{Feed: NewSliceFeed(nil), Portfolio: portfolio.New(1000)}
		_, err := r.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, "backtest: Strategy is required", err.Error())
	})

	t.Run("missing portfolio", func(t *testing.T) {
		r := &Runner{Feed: NewSliceFeed(nil), Strategy: strategies.Noop{}}
		_, err := r.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, "backtest: Portfolio is required", err.Error())
	})

	t.Run("bad window sizes", func(t *testing.T) {
		r := &Runner{
			Feed:      NewSliceFeed(nil),
			Strategy:  strategies.Noop{},
			Portfolio: portfolio.New(1000),
			Options:   Options{ShortPeriod: 20, LongPeriod: 5},
		}
		_, err := r.Run(ctx)
		require.Error(t, err)
	})
}

// Scenario A: a clear crossover at bar 21 produces one buy for half the
// available cash at that bar's close.
func TestRunner_CrossoverBuysAtBar21(t *testing.T) {
	t.Parallel()

	bars := flatThen(20, 30, 2)
	jnl := &memJournal{}
	p := portfolio.New(10000)

	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  strategies.NewSMACross(strategies.SMACrossDefaults()),
		Portfolio: p,
		Gate:      risk.NewCooldown(30), // one trade max in this window
		Journal:   jnl,
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, jnl.fills, 1)
	fill := jnl.fills[0]

	close21 := bars[20].Close
	wantQty := 10000 * 0.5 / close21

	assert.Equal(t, "BUY", fill.Side)
	assert.True(t, fill.Time.Equal(day(20)), "expected fill on bar 21")
	assert.InDelta(t, wantQty, fill.Quantity, 1e-9)
	assert.InDelta(t, 5000, fill.Cash, 1e-9)
	assert.InDelta(t, wantQty, fill.Position, 1e-9)

	assert.Equal(t, 1, res.Trades)
	assert.Equal(t, 1, res.Buys)
	assert.InDelta(t, 5000, res.FinalCash, 1e-9)
	assert.InDelta(t, wantQty, res.FinalPosition, 1e-9)
	assert.Len(t, res.EquityCurve, 30)
}

// Scenario B: two consecutive buy signals one day apart; the cooldown
// suppresses the second.
func TestRunner_CooldownSuppressesBackToBackBuys(t *testing.T) {
	t.Parallel()

	bars := flatThen(20, 24, 2)
	jnl := &memJournal{}

	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  strategies.NewSMACross(strategies.SMACrossDefaults()),
		Portfolio: portfolio.New(10000),
		Gate:      risk.NewCooldown(2),
		Journal:   jnl,
	}

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, jnl.fills)
	assert.True(t, jnl.fills[0].Time.Equal(day(20)))
	for _, fill := range jnl.fills {
		assert.False(t, fill.Time.Equal(day(21)), "bar one day after a fill must be gated")
	}
	if len(jnl.fills) > 1 {
		assert.True(t, jnl.fills[1].Time.Equal(day(22)), "next fill is two calendar days later")
	}
}

// Scenario C: sell signals with nothing held are no-ops; equity still
// tracks cash every bar.
func TestRunner_SellWithNoPositionIsNoop(t *testing.T) {
	t.Parallel()

	bars := flatThen(20, 30, -2)
	jnl := &memJournal{}

	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  strategies.NewSMACross(strategies.SMACrossDefaults()),
		Portfolio: portfolio.New(10000),
		Journal:   jnl,
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, jnl.fills)
	assert.Equal(t, 0, res.Trades)
	require.Len(t, res.EquityCurve, 30)
	for _, pt := range res.EquityCurve {
		assert.InDelta(t, 10000, pt.Equity, 1e-9)
	}
}

// Scenario D: a series shorter than the long window records equity on every
// bar and never trades.
func TestRunner_ShortSeriesNeverTrades(t *testing.T) {
	t.Parallel()

	bars := flatThen(0, 10, 5)
	jnl := &memJournal{}
	spy := &spyStrategy{inner: strategies.NewSMACross(strategies.SMACrossDefaults())}

	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  spy,
		Portfolio: portfolio.New(10000),
		Journal:   jnl,
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, spy.shortLens, "strategy must not be consulted without full history")
	assert.Empty(t, jnl.fills)
	assert.Len(t, res.EquityCurve, 10)
	assert.Len(t, jnl.equity, 10)
}

// The strategy is only ever invoked with fully populated 5/20 windows.
func TestRunner_StrategySeesFullWindowsOnly(t *testing.T) {
	t.Parallel()

	bars := flatThen(20, 26, 0) // flat throughout: every decision is Hold
	spy := &spyStrategy{inner: strategies.Noop{}}

	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  spy,
		Portfolio: portfolio.New(10000),
		Gate:      risk.NewCooldown(2),
	}

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	// Bars 1-19 have insufficient history; bars 20-26 all decide because
	// Hold never starts a cooldown.
	require.Len(t, spy.shortLens, 7)
	for i := range spy.shortLens {
		assert.Equal(t, 5, spy.shortLens[i])
		assert.Equal(t, 20, spy.longLens[i])
	}
}

// Ledger invariants hold after every execution across a volatile series.
func TestRunner_LedgerInvariants(t *testing.T) {
	t.Parallel()

	// Rise for 10 bars, then fall, to force both buys and sells.
	bars := flatThen(20, 40, 2)
	for i := 30; i < 40; i++ {
		bars[i].Close = bars[29].Close - 3*float64(i-29)
	}
	jnl := &memJournal{}

	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  strategies.NewSMACross(strategies.SMACrossDefaults()),
		Portfolio: portfolio.New(10000),
		Gate:      risk.NewCooldown(2),
		Journal:   jnl,
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, jnl.fills)
	sells := 0
	for _, fill := range jnl.fills {
		assert.GreaterOrEqual(t, fill.Cash, 0.0)
		assert.GreaterOrEqual(t, fill.Position, 0.0)
		if fill.Side == "SELL" {
			sells++
		}
	}
	assert.Greater(t, sells, 0, "falling tail should trigger at least one sell")
	assert.GreaterOrEqual(t, res.FinalCash, 0.0)
	assert.GreaterOrEqual(t, res.FinalPosition, 0.0)
	assert.Equal(t, res.Trades, res.Buys+res.Sells)
}

func TestRunner_MalformedBarsAbort(t *testing.T) {
	t.Parallel()

	t.Run("duplicate date", func(t *testing.T) {
		bars := []market.Bar{
			{Time: day(0), Close: 100},
			{Time: day(0), Close: 101},
		}
		r := &Runner{Feed: NewSliceFeed(bars), Strategy: strategies.Noop{}, Portfolio: portfolio.New(1000)}
		_, err := r.Run(context.Background())
		assert.ErrorIs(t, err, market.ErrMalformedBar)
	})

	t.Run("non-positive close", func(t *testing.T) {
		bars := []market.Bar{
			{Time: day(0), Close: 100},
			{Time: day(1), Close: 0},
		}
		r := &Runner{Feed: NewSliceFeed(bars), Strategy: strategies.Noop{}, Portfolio: portfolio.New(1000)}
		_, err := r.Run(context.Background())
		assert.ErrorIs(t, err, market.ErrMalformedBar)
	})
}

func TestRunner_BadMultiplierAborts(t *testing.T) {
	t.Parallel()

	bars := flatThen(20, 25, 0)
	r := &Runner{
		Feed:      NewSliceFeed(bars),
		Strategy:  fixedStrategy{dec: strategies.Decision{Action: strategies.Buy, Multiplier: 1.5}},
		Portfolio: portfolio.New(1000),
	}

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiplier")
}

func TestRunner_FeedErrorPropagates(t *testing.T) {
	t.Parallel()

	r := &Runner{Feed: errorFeed{}, Strategy: strategies.Noop{}, Portfolio: portfolio.New(1000)}
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock error")
}

func TestRunner_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{
		Feed:      NewSliceFeed(flatThen(0, 5, 0)),
		Strategy:  strategies.Noop{},
		Portfolio: portfolio.New(1000),
	}

	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_EmptyFeed(t *testing.T) {
	t.Parallel()

	r := &Runner{
		Feed:      NewSliceFeed(nil),
		Strategy:  strategies.Noop{},
		Portfolio: portfolio.New(1000),
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Bars)
	assert.Empty(t, res.EquityCurve)
	assert.Zero(t, res.FinalEquity)
}
