package wave

// FrequencyEstimator measures the frequency of a sampled signal from the
// spacing of its zero crossings. Rising and falling crossings both count, so
// two crossings half a period apart are enough for a reading.
type FrequencyEstimator struct {
	// Window is how many half-period intervals are averaged. Zero means 4.
	Window int

	prevT, prevY float64
	primed       bool
	crossings    []float64
}

// Add records the sample y taken at time t. Samples must arrive in time order;
// a sample at or before the previous one is ignored.
func (e *FrequencyEstimator) Add(t, y float64) {
	if e.primed && t <= e.prevT {
		return
	}
	rising := e.prevY < 0 && y >= 0
	falling := e.prevY > 0 && y <= 0
	if e.primed && (rising || falling) {
		// linear interpolation of the crossing time
		cross := e.prevT + (t-e.prevT)*(-e.prevY)/(y-e.prevY)
		e.crossings = append(e.crossings, cross)
		if limit := e.window() + 1; len(e.crossings) > limit {
			e.crossings = e.crossings[len(e.crossings)-limit:]
		}
	}
	e.prevT, e.prevY, e.primed = t, y, true
}

// Frequency returns the mean frequency over the held crossings, or false if
// fewer than two crossings were seen.
func (e *FrequencyEstimator) Frequency() (float64, bool) {
	n := len(e.crossings)
	if n < 2 {
		return 0, false
	}
	span := e.crossings[n-1] - e.crossings[0]
	if span <= 0 {
		return 0, false
	}
	return float64(n-1) / (2 * span), true
}

// Crossings is the number of crossings currently held.
func (e *FrequencyEstimator) Crossings() int {
	return len(e.crossings)
}

// Reset forgets every sample.
func (e *FrequencyEstimator) Reset() {
	e.prevT, e.prevY, e.primed = 0, 0, false
	e.crossings = e.crossings[:0]
}

func (e *FrequencyEstimator) window() int {
	if e.Window <= 0 {
		return 4
	}
	return e.Window
}
