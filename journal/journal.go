// Package journal persists what a backtest run did: one FillRecord per
// executed trade and one EquitySnapshot per simulated bar.
package journal

import "time"

// FillRecord is one executed market order. Fills in this engine are
// immediate and whole, so a record is a single row rather than an
// entry/exit pair.
type FillRecord struct {
	FillID   string
	Side     string // "BUY" or "SELL"
	Quantity float64
	Price    float64
	Time     time.Time
	Cash     float64 // cash after the fill
	Position float64 // position after the fill
	Reason   string
}

// EquitySnapshot is the account marked to market at one bar's close.
type EquitySnapshot struct {
	Time     time.Time
	Cash     float64
	Position float64
	Equity   float64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Handy for tests and for runs that only need the
// in-memory equity curve.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error       { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
