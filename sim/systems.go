package sim

import (
	"log"
	"math"
	"reflect"
	"time"

	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/wave"
)

// receiverActiveWindow is how long after its last hit a receiver still counts
// as hearing the signal.
const receiverActiveWindow = 0.25

var moverType = reflect.TypeFor[Mover]()

type ClockSystem struct {
	Clock ecs.Singleton[Clock]
}

func (s *ClockSystem) Execute(frame *ecs.UpdateFrame) {
	clock := s.Clock.Get()
	clock.Delta = frame.DeltaTime
	clock.Elapsed += time.Duration(frame.DeltaTime * float64(time.Second))
}

// PropagateParticleSystem moves every particle along the wave. The new height
// is evaluated at the position the particle held before this frame's move.
type PropagateParticleSystem struct {
	Particles ecs.Query[struct {
		*Transform
		*SignalParticle
	}]
	Clock ecs.Singleton[Clock]
}

func (s *PropagateParticleSystem) Execute(frame *ecs.UpdateFrame) {
	t := s.Clock.Get().Seconds()
	for particle := range s.Particles.Values() {
		params := particle.SignalParticle.Params()
		particle.Transform.X, particle.Transform.Y = params.Step(particle.Transform.X, t, frame.DeltaTime)
	}
}

type ProduceParticleSystem struct {
	Transmitters ecs.Query[struct {
		ecs.EntityId
		*Transmitter
		*GlobalTransform
	}]
	Config ecs.Singleton[Config]
	Clock  ecs.Singleton[Clock]
	Stats  ecs.Singleton[Stats]
}

func (s *ProduceParticleSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.Get()
	t := s.Clock.Get().Seconds()
	stats := s.Stats.Get()

	for tx := range s.Transmitters.Values() {
		tx.Transmitter.SpawnTimer.Duration = cfg.SpawnInterval
		tx.Transmitter.SpawnTimer.TickSeconds(frame.DeltaTime)
		if !tx.Transmitter.SpawnTimer.JustFinished() {
			continue
		}

		spawn := tx.Transmitter.SpawnPoint
		frame.Commands.Spawn(
			Transform{X: spawn.X, Y: spawn.Y, Z: ZParticle},
			GlobalTransform{X: tx.GlobalTransform.X + spawn.X, Y: tx.GlobalTransform.Y + spawn.Y},
			Sprite{
				Shape: ShapeCircle,
				Color: ParticleColor,
				Width: cfg.ParticleRadius,
			},
			SignalParticle{
				Speed:     cfg.Wave.Speed,
				Amplitude: cfg.Wave.Amplitude,
				Frequency: cfg.Wave.Frequency,
				SpawnedAt: t,
			},
			frame.Storage.ChildOf(tx.EntityId),
		)
		stats.Spawned++
	}
}

type MoveReceiverSystem struct {
	Receivers ecs.Query[struct {
		*Transform
		*Mover
		*Receiver
	}]
}

func (s *MoveReceiverSystem) Execute(frame *ecs.UpdateFrame) {
	for rx := range s.Receivers.Values() {
		rx.Transform.X += rx.Mover.Velocity() * frame.DeltaTime
	}
}

type laneRoots = ecs.Query[struct {
	ecs.EntityId
	*Lane
}]

// restart despawns every lane with everything parented to it and queues the
// scenario again. Compaction runs after the flush so a long session does not
// accumulate holes. A scenario that cannot be spawned leaves the current
// world in place.
func restart(frame *ecs.UpdateFrame, roots *laneRoots, cfg *Config, stats *Stats) {
	if _, err := LookupScenario(cfg.Scenario); err != nil {
		log.Printf("restart: %v", err)
		return
	}
	for root := range roots.Values() {
		frame.Commands.DeleteRecursive(root.EntityId)
	}
	if err := SpawnScenario(frame.Commands.Spawn, *cfg); err != nil {
		log.Printf("restart: spawn scenario: %v", err)
	}
	frame.Commands.Defer(frame.Storage.Compact)
	stats.Resets++
}

// ResetSystem restarts the simulation on request and rewinds the reset timer.
type ResetSystem struct {
	Roots      laneRoots
	Input      ecs.Singleton[Input]
	ResetTimer ecs.Singleton[ResetTimer]
	Config     ecs.Singleton[Config]
	Stats      ecs.Singleton[Stats]
}

func (s *ResetSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	if !input.ResetPressed {
		return
	}
	input.ResetPressed = false

	s.ResetTimer.Get().Timer.Reset()
	restart(frame, &s.Roots, s.Config.Get(), s.Stats.Get())
}

// ResetTimerSystem restarts the simulation every reset interval.
type ResetTimerSystem struct {
	Roots      laneRoots
	ResetTimer ecs.Singleton[ResetTimer]
	Config     ecs.Singleton[Config]
	Stats      ecs.Singleton[Stats]
}

func (s *ResetTimerSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.Get()
	timer := &s.ResetTimer.Get().Timer
	timer.Duration = cfg.ResetInterval
	timer.TickSeconds(frame.DeltaTime)
	if timer.JustFinished() {
		restart(frame, &s.Roots, cfg, s.Stats.Get())
	}
}

// DespawnOffscreenSystem deletes particles that left the canvas.
type DespawnOffscreenSystem struct {
	Particles ecs.Query[struct {
		ecs.EntityId
		*GlobalTransform
		*SignalParticle
	}]
	Config ecs.Singleton[Config]
	Stats  ecs.Singleton[Stats]
}

func (s *DespawnOffscreenSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.Get()
	stats := s.Stats.Get()
	halfW := float64(cfg.CanvasWidth)/2 + cfg.CullMargin
	halfH := float64(cfg.CanvasHeight)/2 + cfg.CullMargin

	for particle := range s.Particles.Values() {
		if math.Abs(particle.GlobalTransform.X) > halfW || math.Abs(particle.GlobalTransform.Y) > halfH {
			frame.Commands.Delete(particle.EntityId)
			stats.Culled++
		}
	}
}

// TransformPropagateSystem derives GlobalTransform from the Transform chain.
// Children whose parent is gone are deleted.
type TransformPropagateSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Transform
		*GlobalTransform
		Parent *ecs.Parent `ecs:"optional"`
	}]
}

func (s *TransformPropagateSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Values() {
		x, y, ok := worldPosition(frame.Storage, entity.Transform, entity.Parent)
		if !ok {
			frame.Commands.Delete(entity.EntityId)
			continue
		}
		entity.GlobalTransform.X, entity.GlobalTransform.Y = x, y
	}
}

func worldPosition(storage *ecs.Storage, local *Transform, parent *ecs.Parent) (float64, float64, bool) {
	x, y := local.X, local.Y
	for parent != nil {
		id, ok := storage.ResolveEntityRef(parent.Ref)
		if !ok {
			return 0, 0, false
		}
		if t := ecs.ReadComponent[Transform](storage, id); t != nil {
			x += t.X
			y += t.Y
		}
		parent = ecs.ReadComponent[ecs.Parent](storage, id)
	}
	return x, y, true
}

// ReceiverCollisionSystem lets receivers absorb the particles that reach them
// and plots each absorbed particle's height. Once a receiver's plot spans
// twice its width it stops moving and absorbs without plotting. Every
// absorbed particle feeds the receiver's frequency estimate.
type ReceiverCollisionSystem struct {
	Particles ecs.Query[struct {
		ecs.EntityId
		*Transform
		*GlobalTransform
		*SignalParticle
	}]
	Receivers ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Receiver
		Mover *Mover `ecs:"optional"`
	}]
	Clock  ecs.Singleton[Clock]
	Config ecs.Singleton[Config]
	Stats  ecs.Singleton[Stats]

	stopping map[ecs.EntityId]bool
}

func (s *ReceiverCollisionSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.Get()
	stats := s.Stats.Get()
	t := s.Clock.Get().Seconds()

	width := cfg.ReceiverWidth()
	band := cfg.ReceiverHeight() / 4

	if s.stopping == nil {
		s.stopping = make(map[ecs.EntityId]bool)
	}
	clear(s.stopping)

	for particle := range s.Particles.Values() {
		px, py := particle.GlobalTransform.X, particle.GlobalTransform.Y

		for rx := range s.Receivers.Values() {
			if py >= rx.Transform.Y+band || py <= rx.Transform.Y-band || px >= rx.Transform.X+width {
				continue
			}

			frame.Commands.Delete(particle.EntityId)
			stats.Received++
			s.receive(frame, rx.EntityId, rx.Transform, rx.Receiver, rx.Mover, particle.Transform.Y, t, cfg)
			break
		}
	}

	for rx := range s.Receivers.Values() {
		if measured, ok := rx.Receiver.Estimator.Frequency(); ok {
			rx.Receiver.MeasuredFrequency = measured
		}
	}
}

func (s *ReceiverCollisionSystem) receive(frame *ecs.UpdateFrame, id ecs.EntityId, tf *Transform, rx *Receiver, mover *Mover, y, t float64, cfg *Config) {
	width := cfg.ReceiverWidth()

	rx.Samples++
	rx.Estimator.Add(t, y)
	if !rx.HasCollided {
		rx.HasCollided = true
		rx.PrevCollisionTime = t
	}

	if rx.DrawPosition > 2*width {
		if mover != nil && !s.stopping[id] {
			s.stopping[id] = true
			frame.Commands.RemoveComponent(id, moverType)
			rx.ExpectedFrequency = cfg.Wave.Frequency
			rx.Estimator.Reset()
			rx.MeasuredFrequency = 0
		}
		rx.PrevCollisionTime = t
		return
	}

	frame.Commands.Spawn(
		Transform{X: width - rx.DrawPosition, Y: y, Z: ZPlot},
		GlobalTransform{X: tf.X + width - rx.DrawPosition, Y: tf.Y + y},
		Sprite{
			Shape: ShapeCircle,
			Color: PlotColor,
			Width: cfg.PlotRadius,
		},
		PlotPoint{},
		frame.Storage.ChildOf(id),
	)
	s.Stats.Get().Plotted++

	velocity := 0.0
	if mover != nil {
		velocity = mover.Velocity()
	}
	rx.ExpectedFrequency = wave.ObservedFrequency(cfg.Wave.Frequency, cfg.Wave.Speed, velocity)
	rx.DrawPosition += cfg.DeltaXPerSecond() * (t - rx.PrevCollisionTime)
	rx.PrevCollisionTime = t
}

// Voice receives one tone per lane.
type Voice interface {
	SetVoice(lane int, hz, gain float64)
}

// SonifySystem maps each receiver's measured frequency to a pitch relative
// to BasePitch, silencing receivers that stopped hearing the signal.
type SonifySystem struct {
	Voice     Voice
	BasePitch float64
	Gain      float64

	Receivers ecs.Query[struct{ *Receiver }]
	Config    ecs.Singleton[Config]
	Clock     ecs.Singleton[Clock]
}

func (s *SonifySystem) Execute(frame *ecs.UpdateFrame) {
	if s.Voice == nil {
		return
	}
	cfg := s.Config.Get()
	t := s.Clock.Get().Seconds()

	for rx := range s.Receivers.Values() {
		r := rx.Receiver
		hearing := r.HasCollided && r.MeasuredFrequency > 0 && t-r.PrevCollisionTime < receiverActiveWindow
		if !hearing {
			s.Voice.SetVoice(r.Lane, 0, 0)
			continue
		}
		s.Voice.SetVoice(r.Lane, s.BasePitch*r.MeasuredFrequency/cfg.Wave.Frequency, s.Gain)
	}
}
