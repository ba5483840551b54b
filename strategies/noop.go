package strategies

// Noop holds on every bar. Useful as a baseline: a run with Noop should
// produce a flat equity curve and no fills.
type Noop struct{}

func (Noop) Name() string { return "Noop" }

func (Noop) Decide(short, long []float64) Decision {
	return HoldDecision("noop")
}
