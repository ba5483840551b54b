// Package risk holds the controls that sit between a strategy's decision
// and an order reaching the ledger.
package risk

import "time"

// DefaultMinDays is the stock minimum gap between executed trades.
const DefaultMinDays = 2

// Cooldown suppresses new trade decisions until MinDays calendar days have
// passed since the last executed trade. It starts eligible (no prior trade)
// and only an executed Buy or Sell moves it into cooldown; Hold decisions
// never touch it.
type Cooldown struct {
	MinDays int

	lastTrade time.Time
	traded    bool
}

// NewCooldown returns a gate enforcing minDays between executed trades.
// minDays <= 0 disables the gate entirely.
func NewCooldown(minDays int) *Cooldown {
	return &Cooldown{MinDays: minDays}
}

// Eligible reports whether a trade may execute at t. It is a pure read of
// gate state.
func (c *Cooldown) Eligible(t time.Time) bool {
	if !c.traded || c.MinDays <= 0 {
		return true
	}
	return calendarDays(c.lastTrade, t) >= c.MinDays
}

// Record marks an executed trade at t, starting a new cooldown. Call it
// only after a fill actually happened.
func (c *Cooldown) Record(t time.Time) {
	c.lastTrade = t
	c.traded = true
}

// LastTrade returns the time of the last executed trade and whether one has
// occurred yet.
func (c *Cooldown) LastTrade() (time.Time, bool) {
	return c.lastTrade, c.traded
}

// calendarDays counts whole calendar days from a to b, ignoring the time of
// day on either side. Bars carry dates, so comparing truncated days keeps
// "2 days apart" meaning two calendar days rather than 48 hours.
func calendarDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
