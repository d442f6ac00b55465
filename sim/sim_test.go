package sim_test

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
	"github.com/plus3/doppl/wave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameDt = 1.0 / 60.0

func newSim(t *testing.T, scenario string, opts ...sim.Option) (*ecs.Storage, *ecs.Scheduler) {
	t.Helper()

	cfg := sim.DefaultConfig()
	cfg.Scenario = scenario

	storage := sim.NewStorage()
	require.NoError(t, sim.Install(storage, cfg))
	return storage, sim.NewScheduler(storage, opts...)
}

func runFrames(scheduler *ecs.Scheduler, frames int) {
	for range frames {
		scheduler.Once(frameDt)
	}
}

func receiversByLane(storage *ecs.Storage) map[int]*sim.Receiver {
	result := make(map[int]*sim.Receiver)
	view := ecs.NewView[struct{ *sim.Receiver }](storage)
	for rx := range view.Values() {
		result[rx.Receiver.Lane] = rx.Receiver
	}
	return result
}

func firstTransmitter(t *testing.T, storage *ecs.Storage) ecs.EntityId {
	t.Helper()
	view := ecs.NewView[struct {
		ecs.EntityId
		*sim.Transmitter
	}](storage)
	for tx := range view.Values() {
		return tx.EntityId
	}
	t.Fatal("no transmitter")
	return 0
}

func readStats(t *testing.T, storage *ecs.Storage) *sim.Stats {
	t.Helper()
	var stats *sim.Stats
	require.True(t, storage.ReadSingleton(&stats))
	return stats
}

func TestInstallScenarios(t *testing.T) {
	tests := []struct {
		scenario string
		lanes    int
		movers   int
	}{
		{"doppler", 3, 2},
		{"static", 1, 0},
		{"approach", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			storage, _ := newSim(t, tt.scenario)

			assert.Equal(t, tt.lanes, storage.Count(sim.Transmitter{}))
			assert.Equal(t, tt.lanes, storage.Count(sim.Receiver{}))
			assert.Equal(t, tt.movers, storage.Count(sim.Mover{}))
			assert.Zero(t, storage.Count(sim.SignalParticle{}))
		})
	}
}

func TestInstallExpectedFrequencies(t *testing.T) {
	storage, _ := newSim(t, "doppler")
	rx := receiversByLane(storage)

	require.Len(t, rx, 3)
	assert.InDelta(t, 2.0, rx[0].ExpectedFrequency, 1e-9, "stationary")
	assert.InDelta(t, 3.0, rx[1].ExpectedFrequency, 1e-9, "moving towards the source")
	assert.InDelta(t, 1.0, rx[2].ExpectedFrequency, 1e-9, "moving with the wave")
}

func TestInstallRejectsBadConfig(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Scenario = "nope"
	assert.ErrorIs(t, sim.Install(sim.NewStorage(), cfg), sim.ErrUnknownScenario)

	cfg = sim.DefaultConfig()
	cfg.Wave.Speed = 0
	assert.ErrorIs(t, sim.Install(sim.NewStorage(), cfg), sim.ErrInvalidConfig)

	cfg = sim.DefaultConfig()
	cfg.SpawnInterval = 0
	assert.ErrorIs(t, cfg.Validate(), sim.ErrInvalidConfig)
}

func TestConfigGeometry(t *testing.T) {
	cfg := sim.DefaultConfig()

	assert.Equal(t, 110.0, cfg.ReceiverWidth())
	assert.Equal(t, 220.0, cfg.ReceiverHeight())
	assert.Equal(t, 1.0, cfg.TimeScale())
	assert.Equal(t, 220.0, cfg.DeltaXPerSecond())
}

func TestProduceParticleSpawnsChild(t *testing.T) {
	storage, scheduler := newSim(t, "static")
	tx := firstTransmitter(t, storage)

	scheduler.Once(frameDt)

	assert.Equal(t, 1, storage.Count(sim.SignalParticle{}))
	children := storage.Children(tx)
	require.Len(t, children, 1)

	global := ecs.ReadComponent[sim.GlobalTransform](storage, children[0])
	require.NotNil(t, global)
	assert.Equal(t, sim.GlobalTransform{X: sim.DefaultTransmitterX, Y: 0}, *global)
	assert.Equal(t, 1, readStats(t, storage).Spawned)
}

func TestPropagateParticleFollowsWaveLaw(t *testing.T) {
	storage := sim.NewStorage()
	ecs.NewSingleton[sim.Clock](storage)

	particle := storage.Spawn(
		sim.Transform{},
		sim.SignalParticle{Speed: -200, Amplitude: 50, Frequency: 2},
	)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&sim.ClockSystem{})
	scheduler.Register(&sim.PropagateParticleSystem{})

	params := wave.Params{Amplitude: 50, Frequency: 2, Speed: -200}
	x := 0.0
	for i := 1; i <= 5; i++ {
		scheduler.Once(0.1)
		ts := float64(i) / 10

		tf := ecs.ReadComponent[sim.Transform](storage, particle)
		require.NotNil(t, tf)
		assert.InDelta(t, params.Displacement(x, ts), tf.Y, 1e-9)
		x -= 20
		assert.InDelta(t, x, tf.X, 1e-9)
	}
}

func TestMoveReceiver(t *testing.T) {
	storage, scheduler := newSim(t, "doppler")

	runFrames(scheduler, 60)

	view := ecs.NewView[struct {
		*sim.Transform
		*sim.Lane
		*sim.Receiver
	}](storage)
	xs := map[int]float64{}
	for rx := range view.Values() {
		xs[rx.Lane.Index] = rx.Transform.X
	}

	assert.InDelta(t, -300, xs[0], 1e-6)
	assert.InDelta(t, -200, xs[1], 1e-3)
	assert.InDelta(t, 0, xs[2], 1e-3)
}

func TestReceiverCollisionPlotsPoint(t *testing.T) {
	storage, scheduler := newSim(t, "static")
	tx := firstTransmitter(t, storage)

	// Just inside the receiver's right edge at x = -190.
	storage.Spawn(
		sim.Transform{X: -595, Y: 10},
		sim.GlobalTransform{X: -195, Y: 10},
		sim.SignalParticle{Speed: -200, Amplitude: 50, Frequency: 2},
		storage.ChildOf(tx),
	)

	scheduler.Once(frameDt)

	stats := readStats(t, storage)
	assert.Equal(t, 1, stats.Received)
	assert.Equal(t, 1, stats.Plotted)
	assert.Equal(t, 1, storage.Count(sim.PlotPoint{}))
	// The only particle left is the one produced this frame.
	assert.Equal(t, 1, storage.Count(sim.SignalParticle{}))

	rxView := ecs.NewView[struct {
		ecs.EntityId
		*sim.Receiver
	}](storage)
	for rx := range rxView.Values() {
		assert.True(t, rx.Receiver.HasCollided)
		assert.Zero(t, rx.Receiver.DrawPosition)
		assert.Equal(t, 1, rx.Receiver.Samples)

		children := storage.Children(rx.EntityId)
		require.Len(t, children, 1)
		local := ecs.ReadComponent[sim.Transform](storage, children[0])
		require.NotNil(t, local)
		assert.Equal(t, 110.0, local.X)
		assert.Equal(t, sim.ZPlot, local.Z)
	}
}

func TestReceiverPlotAdvancesAndStops(t *testing.T) {
	storage, scheduler := newSim(t, "approach")

	// Both receivers are hit from about two seconds in and fill their plot
	// about one second later.
	runFrames(scheduler, 150)
	rx := receiversByLane(storage)
	assert.True(t, rx[0].HasCollided)
	assert.Positive(t, rx[0].DrawPosition)
	assert.Equal(t, 2, storage.Count(sim.Mover{}))

	runFrames(scheduler, 90)
	rx = receiversByLane(storage)
	for lane, r := range rx {
		assert.Greater(t, r.DrawPosition, 220.0, "lane %d", lane)
		assert.Equal(t, sim.DefaultFrequency, r.ExpectedFrequency, "lane %d", lane)
	}
	assert.Zero(t, storage.Count(sim.Mover{}))

	plotted := readStats(t, storage).Plotted
	runFrames(scheduler, 30)
	assert.Equal(t, plotted, readStats(t, storage).Plotted, "full receivers stop plotting")
}

func TestPlotPointsFollowReceiver(t *testing.T) {
	storage, scheduler := newSim(t, "approach")
	runFrames(scheduler, 150)

	view := ecs.NewView[struct {
		*sim.Transform
		*sim.GlobalTransform
		*sim.PlotPoint
		*ecs.Parent
	}](storage)

	count := 0
	for point := range view.Values() {
		parent, ok := storage.ResolveEntityRef(point.Parent.Ref)
		require.True(t, ok)
		rxTransform := ecs.ReadComponent[sim.Transform](storage, parent)
		require.NotNil(t, rxTransform)

		// Globals lag the receiver's move by the frame the point was spawned in.
		assert.InDelta(t, rxTransform.X+point.Transform.X, point.GlobalTransform.X, 2)
		count++
	}
	assert.Positive(t, count)
}

func TestApproachingReceiverMeasuresHigherFrequency(t *testing.T) {
	storage, scheduler := newSim(t, "approach")

	// Lane 0 closes at 300 units/s and is hit from about 1.98s; its plot is
	// full shortly before 3s.
	runFrames(scheduler, 174)

	rx := receiversByLane(storage)[0]
	require.True(t, rx.HasCollided)
	assert.InDelta(t, 3.0, rx.ExpectedFrequency, 1e-9)
	assert.InDelta(t, 3.0, rx.MeasuredFrequency, 0.4)
}

func TestRecedingReceiverMeasuresLowerFrequency(t *testing.T) {
	storage, scheduler := newSim(t, "doppler")
	lanes := ecs.NewView[struct {
		*sim.Lane
		*sim.Receiver
		Mover *sim.Mover `ecs:"optional"`
	}](storage)

	// Lane 2 moves with the wave at half its speed, so it hears 1 Hz until
	// its plot fills and it stops.
	var moving []float64
	stopped := false
	for range 600 {
		scheduler.Once(frameDt)
		for rx := range lanes.Values() {
			if rx.Lane.Index != 2 {
				continue
			}
			if rx.Mover == nil {
				stopped = true
			} else if rx.Receiver.MeasuredFrequency > 0 {
				moving = append(moving, rx.Receiver.MeasuredFrequency)
			}
		}
		if stopped {
			break
		}
	}

	require.True(t, stopped)
	require.NotEmpty(t, moving)
	last := moving[len(moving)-1]
	assert.Less(t, last, sim.DefaultFrequency)
	assert.InDelta(t, 1.0, last, 0.3)
}

func TestStationaryReceiverMeasuresSourceFrequency(t *testing.T) {
	storage, scheduler := newSim(t, "static")

	runFrames(scheduler, 300)

	rx := receiversByLane(storage)[0]
	assert.InDelta(t, sim.DefaultFrequency, rx.MeasuredFrequency, 0.2)
}

func TestResetOnInput(t *testing.T) {
	storage, scheduler := newSim(t, "doppler")
	runFrames(scheduler, 200)
	require.Positive(t, storage.Count(sim.SignalParticle{}))

	var input *sim.Input
	require.True(t, storage.ReadSingleton(&input))
	input.ResetPressed = true

	scheduler.Once(frameDt)

	assert.False(t, input.ResetPressed)
	assert.Equal(t, 3, storage.Count(sim.Transmitter{}))
	assert.Equal(t, 3, storage.Count(sim.Receiver{}))
	assert.Equal(t, 2, storage.Count(sim.Mover{}))
	assert.Zero(t, storage.Count(sim.SignalParticle{}))
	assert.Zero(t, storage.Count(sim.PlotPoint{}))
	assert.Equal(t, 6, storage.CollectStats().TotalEntityCount)
	assert.Equal(t, 1, readStats(t, storage).Resets)

	var resetTimer *sim.ResetTimer
	require.True(t, storage.ReadSingleton(&resetTimer))
	assert.Less(t, resetTimer.Timer.Elapsed().Seconds(), 2*frameDt)

	for _, rx := range receiversByLane(storage) {
		assert.False(t, rx.HasCollided)
	}
}

func TestResetKeepsWorldWhenScenarioIsUnknown(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	storage, scheduler := newSim(t, "static")
	runFrames(scheduler, 10)

	var cfg *sim.Config
	require.True(t, storage.ReadSingleton(&cfg))
	cfg.Scenario = "missing"

	var input *sim.Input
	require.True(t, storage.ReadSingleton(&input))
	input.ResetPressed = true
	scheduler.Once(frameDt)

	assert.Zero(t, readStats(t, storage).Resets)
	assert.Equal(t, 1, storage.Count(sim.Transmitter{}))
	assert.Equal(t, 1, storage.Count(sim.Receiver{}))
	assert.Positive(t, storage.Count(sim.SignalParticle{}))
	assert.Contains(t, logs.String(), "restart:")
	assert.Contains(t, logs.String(), "missing")
}

func TestResetTimerRestarts(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Scenario = "static"
	cfg.ResetInterval = 500 * time.Millisecond

	storage := sim.NewStorage()
	require.NoError(t, sim.Install(storage, cfg))
	scheduler := sim.NewScheduler(storage)

	runFrames(scheduler, 40)

	assert.Equal(t, 1, readStats(t, storage).Resets)
	assert.Equal(t, 1, storage.Count(sim.Transmitter{}))
	// Nine frames ran since the restart, one particle each.
	assert.Equal(t, 9, storage.Count(sim.SignalParticle{}))
}

func TestDespawnOffscreen(t *testing.T) {
	storage, scheduler := newSim(t, "static")
	tx := firstTransmitter(t, storage)

	storage.Spawn(
		sim.Transform{X: -1200, Y: 300},
		sim.GlobalTransform{X: -800, Y: 300},
		sim.SignalParticle{Speed: -200, Amplitude: 50, Frequency: 2},
		storage.ChildOf(tx),
	)

	scheduler.Once(frameDt)

	assert.Equal(t, 1, readStats(t, storage).Culled)
	assert.Equal(t, 1, storage.Count(sim.SignalParticle{}))
}

func TestTransformPropagate(t *testing.T) {
	storage := sim.NewStorage()
	parent := storage.Spawn(sim.Transform{X: 10, Y: 5}, sim.GlobalTransform{})
	child := storage.Spawn(sim.Transform{X: 1, Y: 2}, sim.GlobalTransform{}, storage.ChildOf(parent))
	grandchild := storage.Spawn(sim.Transform{X: 100}, sim.GlobalTransform{}, storage.ChildOf(child))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&sim.TransformPropagateSystem{})
	scheduler.Once(0)

	assert.Equal(t, sim.GlobalTransform{X: 10, Y: 5}, *ecs.ReadComponent[sim.GlobalTransform](storage, parent))
	assert.Equal(t, sim.GlobalTransform{X: 11, Y: 7}, *ecs.ReadComponent[sim.GlobalTransform](storage, child))
	assert.Equal(t, sim.GlobalTransform{X: 111, Y: 7}, *ecs.ReadComponent[sim.GlobalTransform](storage, grandchild))

	// Orphans are dropped together with everything below them.
	storage.Delete(parent)
	scheduler.Once(0)
	assert.Zero(t, storage.Count(sim.Transform{}))
}

type recordingVoice struct {
	hz, gain map[int]float64
}

func (v *recordingVoice) SetVoice(lane int, hz, gain float64) {
	v.hz[lane] = hz
	v.gain[lane] = gain
}

func TestSonifyStationaryReceiver(t *testing.T) {
	voice := &recordingVoice{hz: map[int]float64{}, gain: map[int]float64{}}
	_, scheduler := newSim(t, "static", sim.WithVoice(voice))

	runFrames(scheduler, 60)
	assert.Zero(t, voice.gain[0], "silent before the first hit")

	runFrames(scheduler, 240)
	assert.Positive(t, voice.gain[0])
	assert.InDelta(t, sim.DefaultBasePitch, voice.hz[0], 25)
}
