package market

// Window is a fixed-capacity ring buffer over close prices. It keeps the
// last capacity observations in chronological order; older values are
// overwritten as new closes are pushed.
type Window struct {
	values []float64
	size   int
	index  int
	filled bool
}

// NewWindow returns an empty Window holding up to size closes.
// It panics if size is not positive; window sizes are configuration
// constants, not runtime data.
func NewWindow(size int) *Window {
	if size <= 0 {
		panic("market: window size must be positive")
	}
	return &Window{
		values: make([]float64, size),
		size:   size,
	}
}

// Push appends the next close, evicting the oldest if the window is full.
func (w *Window) Push(close float64) {
	w.values[w.index] = close
	w.index = (w.index + 1) % w.size
	if w.index == 0 {
		w.filled = true
	}
}

// Len reports how many closes have been observed, capped at capacity.
func (w *Window) Len() int {
	if w.filled {
		return w.size
	}
	return w.index
}

// Full reports whether the window has observed at least capacity closes.
func (w *Window) Full() bool { return w.filled }

// Last returns the most recent n closes in chronological order, or nil if
// fewer than n closes have been observed. The returned slice is a copy.
func (w *Window) Last(n int) []float64 {
	if n <= 0 || n > w.Len() {
		return nil
	}
	out := make([]float64, 0, w.Len())
	if w.filled {
		out = append(out, w.values[w.index:]...)
	}
	out = append(out, w.values[:w.index]...)
	return out[len(out)-n:]
}
