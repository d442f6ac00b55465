package ecs

import "time"

// TimerMode controls what a Timer does once its duration elapses.
type TimerMode int

const (
	// TimerOnce finishes a single time and stays finished until Reset.
	TimerOnce TimerMode = iota
	// TimerRepeating wraps around and keeps the overflow.
	TimerRepeating
)

// Timer counts frame time towards a duration. It is a plain value, so it can
// live inside components and singletons and be ticked by systems.
type Timer struct {
	Duration time.Duration
	Mode     TimerMode

	elapsed      time.Duration
	finished     bool
	timesElapsed int
}

// NewTimer returns a timer that has not started ticking.
func NewTimer(d time.Duration, mode TimerMode) Timer {
	return Timer{Duration: d, Mode: mode}
}

// Tick advances the timer by dt.
func (t *Timer) Tick(dt time.Duration) {
	t.timesElapsed = 0

	if t.Mode == TimerOnce && t.finished {
		return
	}
	if t.Duration <= 0 {
		t.finished = true
		t.timesElapsed = 1
		return
	}

	t.elapsed += dt
	t.finished = false

	if t.elapsed < t.Duration {
		return
	}

	t.finished = true
	if t.Mode == TimerOnce {
		t.timesElapsed = 1
		t.elapsed = t.Duration
		return
	}

	t.timesElapsed = int(t.elapsed / t.Duration)
	t.elapsed %= t.Duration
}

// TickSeconds is Tick for callers holding a float64 frame delta.
func (t *Timer) TickSeconds(dt float64) {
	t.Tick(time.Duration(dt * float64(time.Second)))
}

// JustFinished reports whether the last Tick crossed the duration.
func (t *Timer) JustFinished() bool {
	return t.finished && t.timesElapsed > 0
}

// Finished reports whether the timer is in its finished state. Repeating
// timers are only finished for the tick that crossed the duration.
func (t *Timer) Finished() bool {
	return t.finished
}

// TimesFinishedThisTick is how many whole durations the last Tick covered.
// A 10ms repeating timer ticked by 35ms reports 3.
func (t *Timer) TimesFinishedThisTick() int {
	return t.timesElapsed
}

// Elapsed returns the time accumulated towards the next finish.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Fraction is Elapsed over Duration in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.Duration)
}

// Reset rewinds the timer to zero.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.timesElapsed = 0
}
