package sim

import (
	"fmt"

	"github.com/plus3/doppl/ecs"
)

// NewStorage returns a storage with every simulation component registered,
// plus whatever the extra registration funcs add.
func NewStorage(extra ...func(*ecs.ComponentRegistry)) *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	for _, register := range extra {
		register(registry)
	}
	return ecs.NewStorage(registry)
}

// Install validates cfg, creates the simulation singletons and spawns the
// configured scenario.
func Install(storage *ecs.Storage, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ecs.NewSingleton[Config](storage).Set(cfg)
	ecs.NewSingleton[Clock](storage)
	ecs.NewSingleton[Input](storage)
	ecs.NewSingleton[Stats](storage)
	ecs.NewSingleton[ResetTimer](storage, ResetTimer{
		Timer: ecs.NewTimer(cfg.ResetInterval, ecs.TimerRepeating),
	})

	if err := SpawnScenario(func(components ...any) { storage.Spawn(components...) }, cfg); err != nil {
		return fmt.Errorf("spawn scenario: %w", err)
	}
	return nil
}

type options struct {
	voice     Voice
	basePitch float64
	gain      float64
}

type Option func(*options)

// WithVoice plays each receiver's signal through v.
func WithVoice(v Voice) Option {
	return func(o *options) { o.voice = v }
}

// WithPitch sets the tone played for a signal at the source frequency and
// the gain of an active receiver.
func WithPitch(basePitch, gain float64) Option {
	return func(o *options) {
		o.basePitch = basePitch
		o.gain = gain
	}
}

// NewScheduler registers the simulation systems in execution order.
// Transforms are propagated before collisions so receivers see this frame's
// particle positions.
func NewScheduler(storage *ecs.Storage, opts ...Option) *ecs.Scheduler {
	o := options{basePitch: DefaultBasePitch, gain: 0.15}
	for _, opt := range opts {
		opt(&o)
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ClockSystem{})
	scheduler.Register(&PropagateParticleSystem{})
	scheduler.Register(&ProduceParticleSystem{})
	scheduler.Register(&MoveReceiverSystem{})
	scheduler.Register(&ResetSystem{})
	scheduler.Register(&ResetTimerSystem{})
	scheduler.Register(&DespawnOffscreenSystem{})
	scheduler.Register(&TransformPropagateSystem{})
	scheduler.Register(&ReceiverCollisionSystem{})
	if o.voice != nil {
		scheduler.Register(&SonifySystem{Voice: o.voice, BasePitch: o.basePitch, Gain: o.gain})
	}
	return scheduler
}
