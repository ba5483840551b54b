package backtest

// Metrics are summary statistics over a completed equity curve.
type Metrics struct {
	TotalReturn float64 // final/initial - 1, as a fraction
	MaxDrawdown float64 // worst peak-to-trough decline, as a negative fraction
	PeakEquity  float64
}

// ComputeMetrics derives curve statistics from a run's equity points.
// An empty curve yields zero metrics.
func ComputeMetrics(curve []EquityPoint) Metrics {
	if len(curve) == 0 {
		return Metrics{}
	}

	initial := curve[0].Equity
	peak := initial

	var dd float64
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			d := (p.Equity - peak) / peak
			if d < dd {
				dd = d
			}
		}
	}

	m := Metrics{
		MaxDrawdown: dd,
		PeakEquity:  peak,
	}
	if initial > 0 {
		m.TotalReturn = curve[len(curve)-1].Equity/initial - 1
	}
	return m
}
