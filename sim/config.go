package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/plus3/doppl/wave"
)

// Wave defaults.
const (
	DefaultAmplitude      = 50.0
	DefaultFrequency      = 2.0
	DefaultSpeed          = -200.0
	DefaultParticleRadius = 5.0
	DefaultSpawnInterval  = 10 * time.Millisecond
)

// Scene defaults, in world units with the origin at the canvas center.
const (
	DefaultTransmitterX    = 400.0
	DefaultTransmitterSize = 25.0
	DefaultReceiverSpeed   = 100.0
	DefaultPlotRadius      = 7.0
	DefaultResetInterval   = 10 * time.Second
	DefaultCanvasWidth     = 1280
	DefaultCanvasHeight    = 720
	DefaultCullMargin      = 50.0
	DefaultBasePitch       = 220.0
	DefaultScenario        = "doppler"
)

// Draw order. Higher values are drawn later.
const (
	ZParticle = -1.0
	ZBody     = 1.0
	ZPlot     = 2.0
)

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Config carries every tunable of the simulation. It is installed as a
// singleton so systems and the debug overlay read the live values.
type Config struct {
	Scenario string

	Wave           wave.Params
	ParticleRadius float64
	SpawnInterval  time.Duration

	TransmitterX    float64
	TransmitterSize float64
	ReceiverSpeed   float64
	PlotRadius      float64
	ResetInterval   time.Duration

	CanvasWidth  int
	CanvasHeight int
	CullMargin   float64
}

func DefaultConfig() Config {
	return Config{
		Scenario: DefaultScenario,
		Wave: wave.Params{
			Amplitude: DefaultAmplitude,
			Frequency: DefaultFrequency,
			Speed:     DefaultSpeed,
		},
		ParticleRadius:  DefaultParticleRadius,
		SpawnInterval:   DefaultSpawnInterval,
		TransmitterX:    DefaultTransmitterX,
		TransmitterSize: DefaultTransmitterSize,
		ReceiverSpeed:   DefaultReceiverSpeed,
		PlotRadius:      DefaultPlotRadius,
		ResetInterval:   DefaultResetInterval,
		CanvasWidth:     DefaultCanvasWidth,
		CanvasHeight:    DefaultCanvasHeight,
		CullMargin:      DefaultCullMargin,
	}
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	switch {
	case c.Wave.Amplitude <= 0:
		return fmt.Errorf("%w: amplitude must be positive, got %g", ErrInvalidConfig, c.Wave.Amplitude)
	case c.Wave.Frequency <= 0:
		return fmt.Errorf("%w: frequency must be positive, got %g", ErrInvalidConfig, c.Wave.Frequency)
	case !c.Wave.Valid():
		return fmt.Errorf("%w: speed must be finite and non-zero, got %g", ErrInvalidConfig, c.Wave.Speed)
	case c.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn interval must be positive, got %s", ErrInvalidConfig, c.SpawnInterval)
	case c.ResetInterval <= 0:
		return fmt.Errorf("%w: reset interval must be positive, got %s", ErrInvalidConfig, c.ResetInterval)
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas must be non-empty, got %dx%d", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	}
	if _, err := LookupScenario(c.Scenario); err != nil {
		return err
	}
	return nil
}

// ReceiverWidth is the receiver's short side: one full swing of the wave plus
// a particle on each end.
func (c Config) ReceiverWidth() float64 {
	return 2*c.Wave.Amplitude + 2*c.ParticleRadius
}

// ReceiverHeight is twice the width. The receiver's sprite is laid on its
// side, ReceiverHeight wide and ReceiverWidth tall.
func (c Config) ReceiverHeight() float64 {
	return 2 * c.ReceiverWidth()
}

// TimeScale is how many seconds of signal fit across a receiver's plot.
func (c Config) TimeScale() float64 {
	return 2 / c.Wave.Frequency
}

// DeltaXPerSecond is how far the plot cursor moves per second of signal.
func (c Config) DeltaXPerSecond() float64 {
	return 2 * c.ReceiverWidth() / c.TimeScale()
}
