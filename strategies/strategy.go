// Package strategies contains the decision logic that turns price windows
// into trade actions.
package strategies

import (
	"fmt"
	"strings"
)

// Action is what a strategy wants done with the instrument on this bar.
type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Decision is the outcome of one strategy evaluation. Multiplier is the
// fraction of available cash (Buy) or held position (Sell) to trade and is
// always in (0, 1] when Action is Buy or Sell. For Hold it is zero.
type Decision struct {
	Action     Action
	Multiplier float64
	Reason     string
}

// HoldDecision is a convenience for "do nothing" with a reason.
func HoldDecision(reason string) Decision {
	return Decision{Action: Hold, Reason: reason}
}

// Strategy evaluates a short and a long window of closes, both suffixes of
// the same close-price series ending at the current bar.
//
// Implementations must be pure: identical inputs yield identical decisions
// and no state is carried between calls. Ambiguous signals and invalid
// inputs return Hold; the caller guarantees the windows are fully populated
// before calling.
type Strategy interface {
	Name() string
	Decide(short, long []float64) Decision
}

// ByName builds a strategy from its CLI name.
func ByName(name string, short, long int, multiplier float64) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "sma-cross", "smacross":
		return NewSMACross(SMACrossConfig{
			ShortPeriod: short,
			LongPeriod:  long,
			Multiplier:  multiplier,
		}), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, sma-cross)", name)
	}
}
