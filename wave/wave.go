// Package wave holds the closed-form traveling-wave law used by the signal
// particles and the Doppler relations used to check what receivers measure.
//
// Coordinates are one dimensional along the direction of travel: a negative
// Speed means the wave moves towards -x.
package wave

import "math"

// Params describes a sinusoidal traveling wave.
type Params struct {
	Amplitude float64
	Frequency float64
	Speed     float64
}

// WaveNumber is k = 2πf / v. It carries the sign of Speed.
func (p Params) WaveNumber() float64 {
	return 2 * math.Pi * p.Frequency / p.Speed
}

// AngularFrequency is ω = 2πf.
func (p Params) AngularFrequency() float64 {
	return 2 * math.Pi * p.Frequency
}

// Wavelength is |v| / f.
func (p Params) Wavelength() float64 {
	return math.Abs(p.Speed) / p.Frequency
}

// Period is 1 / f.
func (p Params) Period() float64 {
	return 1 / p.Frequency
}

// Displacement returns the transverse offset -A·sin(k·x − ω·t).
// The sign makes the source end (x = 0) rise first.
func (p Params) Displacement(x, t float64) float64 {
	return -p.Amplitude * math.Sin(p.WaveNumber()*x-p.AngularFrequency()*t)
}

// Position is the closed-form trajectory of a particle launched from x0 at
// time t0: x = x0 + v·(t − t0), y = Displacement(x, t).
func (p Params) Position(x0, t0, t float64) (x, y float64) {
	x = x0 + p.Speed*(t-t0)
	return x, p.Displacement(x, t)
}

// Step advances a particle by one frame the way the simulation does: the
// displacement is evaluated at the position held before the move.
func (p Params) Step(x, t, dt float64) (nextX, y float64) {
	return x + p.Speed*dt, p.Displacement(x, t)
}

// Valid reports whether the wave can be evaluated.
func (p Params) Valid() bool {
	return p.Amplitude > 0 && p.Frequency > 0 && p.Speed != 0 &&
		!math.IsInf(p.Speed, 0) && !math.IsNaN(p.Speed)
}

// ObservedFrequency is the frequency seen by an observer moving with
// receiverVelocity through a wave of source frequency f traveling with
// waveVelocity. Moving against the wave raises the frequency.
func ObservedFrequency(f, waveVelocity, receiverVelocity float64) float64 {
	if waveVelocity == 0 {
		return 0
	}
	return f * (waveVelocity - receiverVelocity) / waveVelocity
}
