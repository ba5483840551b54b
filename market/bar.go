// Package market holds the daily price types the backtest engine consumes.
package market

import (
	"errors"
	"fmt"
	"time"
)

// Bar is one day's closing price observation. Bars are immutable once
// produced and arrive in strictly increasing date order.
type Bar struct {
	Time  time.Time
	Close float64
}

// ErrMalformedBar marks a bar that violates the feed contract: a
// non-positive close or a date that does not advance past the previous bar.
var ErrMalformedBar = errors.New("malformed bar")

// Validate checks cur against the feed contract. prev is the zero Bar for
// the first bar of a series.
//
// A malformed bar must be rejected rather than skipped: silently dropping
// it would desynchronize the price window from calendar time.
func Validate(prev, cur Bar) error {
	if cur.Close <= 0 {
		return fmt.Errorf("%w: non-positive close %v at %s",
			ErrMalformedBar, cur.Close, cur.Time.Format("2006-01-02"))
	}
	if !prev.Time.IsZero() && !cur.Time.After(prev.Time) {
		return fmt.Errorf("%w: date %s does not advance past %s",
			ErrMalformedBar,
			cur.Time.Format("2006-01-02"),
			prev.Time.Format("2006-01-02"))
	}
	return nil
}
