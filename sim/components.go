package sim

import (
	"image/color"
	"time"

	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/wave"
)

type Vec2 struct {
	X, Y float64
}

// Transform is an entity's position relative to its parent, or to the world
// when it has none. Z orders drawing only.
type Transform struct {
	X, Y, Z float64
}

// GlobalTransform is the world position, derived from Transform by
// TransformPropagateSystem.
type GlobalTransform struct {
	X, Y float64
}

type ShapeType int

const (
	ShapeCircle ShapeType = iota
	ShapeRect
	ShapeTriangle
)

// Sprite is what the renderer draws at an entity's GlobalTransform.
// Circles use Width as the diameter.
type Sprite struct {
	Shape  ShapeType
	Color  color.RGBA
	Width  float64
	Height float64
}

type Transmitter struct {
	SpawnPoint Vec2
	SpawnTimer ecs.Timer
}

type SignalParticle struct {
	Speed     float64
	Amplitude float64
	Frequency float64
	SpawnedAt float64
}

func (p *SignalParticle) Params() wave.Params {
	return wave.Params{Amplitude: p.Amplitude, Frequency: p.Frequency, Speed: p.Speed}
}

type Receiver struct {
	Lane              int
	PrevCollisionTime float64
	HasCollided       bool
	DrawPosition      float64

	Samples           int
	Estimator         wave.FrequencyEstimator
	MeasuredFrequency float64
	ExpectedFrequency float64
}

type Movement int

const (
	Stationary Movement = iota
	Left
	Right
)

func (m Movement) Direction() float64 {
	switch m {
	case Left:
		return -1
	case Right:
		return 1
	}
	return 0
}

func (m Movement) String() string {
	switch m {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "stationary"
}

// Mover makes a receiver drift along x. It is removed once the receiver's
// plot is full.
type Mover struct {
	Direction float64
	Speed     float64
}

func (m *Mover) Velocity() float64 {
	return m.Direction * m.Speed
}

type PlotPoint struct{}

// Lane tags the transmitter and receiver of one lane. Both are roots of their
// own hierarchy, so a reset deletes every Lane entity recursively.
type Lane struct {
	Index    int
	Movement Movement
}

type Clock struct {
	Elapsed time.Duration
	Delta   float64
}

// Seconds is the elapsed time truncated to whole milliseconds. The wave law
// and the receivers' plot cursor both read time at this resolution.
func (c *Clock) Seconds() float64 {
	return float64(c.Elapsed.Milliseconds()) / 1000
}

// Input is filled by the game loop before each update. Systems consume the
// flags they act on.
type Input struct {
	ResetPressed   bool
	CapturePressed bool
}

type ResetTimer struct {
	Timer ecs.Timer
}

type Stats struct {
	Spawned  int
	Received int
	Plotted  int
	Culled   int
	Resets   int
}

var (
	ParticleColor    = color.RGBA{0x00, 0xff, 0x00, 0xff}
	TransmitterColor = color.RGBA{0xff, 0xa5, 0x00, 0xff}
	ReceiverColor    = color.RGBA{0xff, 0x00, 0x00, 0xff}
	PlotColor        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	BackgroundColor  = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// RegisterComponents registers every component the simulation spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Transmitter](registry)
	ecs.RegisterComponent[SignalParticle](registry)
	ecs.RegisterComponent[Receiver](registry)
	ecs.RegisterComponent[Mover](registry)
	ecs.RegisterComponent[PlotPoint](registry)
	ecs.RegisterComponent[Lane](registry)
}
