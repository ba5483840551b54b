package strategies

import (
	"fmt"

	"github.com/Adi-UA/SimpleTrader/indicators"
)

// SMACrossConfig configures the simple moving-average comparison.
type SMACrossConfig struct {
	ShortPeriod int     `json:"short-period" yaml:"short-period"` // 5
	LongPeriod  int     `json:"long-period" yaml:"long-period"`   // 20
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`     // fraction traded per signal, (0,1]
}

// SMACrossDefaults returns the stock 5/20 configuration trading half the
// available cash or position per signal.
func SMACrossDefaults() SMACrossConfig {
	return SMACrossConfig{
		ShortPeriod: 5,
		LongPeriod:  20,
		Multiplier:  0.5,
	}
}

// SMACross buys when the short-window mean is above the long-window mean
// and sells when it is below. An exactly equal pair of means is ambiguous
// and holds.
type SMACross struct {
	cfg SMACrossConfig
}

func NewSMACross(cfg SMACrossConfig) *SMACross {
	if cfg.ShortPeriod <= 0 {
		cfg.ShortPeriod = 5
	}
	if cfg.LongPeriod <= 0 {
		cfg.LongPeriod = 20
	}
	if cfg.Multiplier <= 0 || cfg.Multiplier > 1 {
		cfg.Multiplier = 0.5
	}
	return &SMACross{cfg: cfg}
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("SMACross(%d/%d)", s.cfg.ShortPeriod, s.cfg.LongPeriod)
}

// Decide compares mean(short) against mean(long). Wrong-length windows or
// non-positive prices hold rather than error; the engine treats Hold as the
// safe default for anything it cannot read a signal from.
func (s *SMACross) Decide(short, long []float64) Decision {
	if len(short) != s.cfg.ShortPeriod || len(long) != s.cfg.LongPeriod {
		return HoldDecision("bad window lengths")
	}
	if !allPositive(short) || !allPositive(long) {
		return HoldDecision("non-positive price in window")
	}

	fast, err := indicators.SMA(short, s.cfg.ShortPeriod)
	if err != nil {
		return HoldDecision("short window: " + err.Error())
	}
	slow, err := indicators.SMA(long, s.cfg.LongPeriod)
	if err != nil {
		return HoldDecision("long window: " + err.Error())
	}

	switch {
	case fast > slow:
		return Decision{Action: Buy, Multiplier: s.cfg.Multiplier, Reason: "ShortAboveLong"}
	case fast < slow:
		return Decision{Action: Sell, Multiplier: s.cfg.Multiplier, Reason: "ShortBelowLong"}
	default:
		return HoldDecision("means equal")
	}
}

func allPositive(xs []float64) bool {
	for _, x := range xs {
		if x <= 0 {
			return false
		}
	}
	return true
}
