// Command doppl-bench runs the simulation headless at a fixed time step and
// prints a markdown report of frame times, entity counts and the frequency
// each receiver measured.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
)

var (
	// simulatedFlag is measured in simulation time, not wall time.
	simulatedFlag  = flag.Duration("duration", 30*time.Second, "simulated time to run for")
	timeoutFlag    = flag.Duration("timeout", time.Minute, "abort after this much wall time")
	stepFlag       = flag.Duration("step", time.Second/60, "fixed simulation time step")
	scenarioFlag   = flag.String("scenario", sim.DefaultScenario, "lane layout to simulate")
	resetFlag      = flag.Duration("reset-interval", sim.DefaultResetInterval, "restart the simulation this often")
	gcPauseMetrics = flag.Bool("gc-pause-metrics", false, "include GC pause totals in the report")
)

func main() {
	flag.Parse()

	if err := checkTiming(*simulatedFlag, *stepFlag); err != nil {
		log.Fatal(err)
	}

	cfg := sim.DefaultConfig()
	cfg.Scenario = *scenarioFlag
	cfg.ResetInterval = *resetFlag

	storage := sim.NewStorage()
	if err := sim.Install(storage, cfg); err != nil {
		log.Fatalf("install simulation: %v", err)
	}
	scheduler := sim.NewScheduler(storage)

	report := &Report{
		Scenario:       cfg.Scenario,
		Simulated:      *simulatedFlag,
		Step:           *stepFlag,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %q for %s of simulated time...", cfg.Scenario, *simulatedFlag)
	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	if err := run(ctx, scheduler, storage, report); err != nil {
		log.Printf("Stopped early: %v", err)
		report.Aborted = true
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println()
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
}

// run steps the scheduler until the simulated duration has elapsed or ctx
// is done, recording each frame's wall time and the peak entity count seen
// before commands are flushed.
func run(ctx context.Context, scheduler *ecs.Scheduler, storage *ecs.Storage, report *Report) error {
	if err := checkTiming(report.Simulated, report.Step); err != nil {
		return err
	}
	dt := report.Step.Seconds()
	frames := int(report.Simulated / report.Step)
	report.UpdateTime.Samples = make([]time.Duration, 0, frames)

	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		if n := frame.Storage.CollectStats().TotalEntityCount; n > report.PeakEntities {
			report.PeakEntities = n
		}
	}))

	startTime := time.Now()
	defer func() {
		report.TotalTime = time.Since(startTime)
		report.UpdateTime.Finalize()
		report.Scheduler = *scheduler.GetStats()
		report.Storage = storage.CollectStats()
		report.Receivers = collectReceivers(storage)

		var stats *sim.Stats
		if storage.ReadSingleton(&stats) {
			report.Sim = *stats
		}
	}()

	for range frames {
		if err := ctx.Err(); err != nil {
			return err
		}

		updateStart := time.Now()
		scheduler.Once(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++
	}
	return nil
}

func collectReceivers(storage *ecs.Storage) []ReceiverResult {
	view := ecs.NewView[struct {
		*sim.Lane
		*sim.Receiver
	}](storage)

	var results []ReceiverResult
	for rx := range view.Values() {
		results = append(results, ReceiverResult{
			Lane:     rx.Lane.Index,
			Movement: rx.Lane.Movement.String(),
			Samples:  rx.Receiver.Samples,
			Measured: rx.Receiver.MeasuredFrequency,
			Expected: rx.Receiver.ExpectedFrequency,
		})
	}
	slices.SortFunc(results, func(a, b ReceiverResult) int { return a.Lane - b.Lane })
	return results
}

func checkTiming(simulated, step time.Duration) error {
	if step <= 0 {
		return fmt.Errorf("-step must be positive, got %s", step)
	}
	if simulated < step {
		return fmt.Errorf("-duration %s is shorter than one step of %s", simulated, step)
	}
	return nil
}
