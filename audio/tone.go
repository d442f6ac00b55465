package audio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
)

// glideTime is how long a Tone takes to settle on a new pitch or gain.
const glideTime = 20 * time.Millisecond

// Tone is an endless sine generator whose pitch and gain can be changed from
// any goroutine while the speaker streams it.
type Tone struct {
	sr beep.SampleRate

	targetHz   atomic.Uint64
	targetGain atomic.Uint64

	phase  float64
	hz     float64
	gain   float64
	smooth float64
}

func NewTone(sr beep.SampleRate) *Tone {
	return &Tone{
		sr:     sr,
		smooth: 1 - math.Exp(-1/(glideTime.Seconds()*float64(sr))),
	}
}

// Set changes the pitch in Hz and the gain in [0, 1]. Negative values are
// clamped to zero.
func (t *Tone) Set(hz, gain float64) {
	t.targetHz.Store(math.Float64bits(max(hz, 0)))
	t.targetGain.Store(math.Float64bits(min(max(gain, 0), 1)))
}

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	targetHz := math.Float64frombits(t.targetHz.Load())
	targetGain := math.Float64frombits(t.targetGain.Load())

	for i := range samples {
		t.hz += (targetHz - t.hz) * t.smooth
		t.gain += (targetGain - t.gain) * t.smooth

		v := t.gain * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.hz / float64(t.sr)
		t.phase -= math.Floor(t.phase)
	}
	return len(samples), true
}

func (t *Tone) Err() error {
	return nil
}
