// Command doppl animates transmitters emitting a traveling wave as particles
// and receivers plotting what they pick up. Moving receivers plot the wave
// at a Doppler shifted frequency.
//
// Press R to restart, Q or Escape to quit. With -debug-ui, F1 toggles the
// tuning windows. Builds with the gifcreate tag save frames after Space is
// pressed.
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/doppl/audio"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/ecs/debugui"
	debugui_ebiten "github.com/plus3/doppl/ecs/debugui/ebiten"
	"github.com/plus3/doppl/render"
	"github.com/plus3/doppl/sim"
)

const windowTitle = "Doppler Effect"

func main() {
	flag.Parse()

	cfg := configFromFlags()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	scenario, err := sim.LookupScenario(cfg.Scenario)
	if err != nil {
		log.Fatal(err)
	}

	storage := sim.NewStorage(debugui.RegisterDebugUIComponents)
	if err := sim.Install(storage, cfg); err != nil {
		log.Fatalf("install simulation: %v", err)
	}
	render.Install(storage, cfg)
	log.Printf("scenario %q: %s", scenario.Name, scenario.Description)

	var opts []sim.Option
	if *audioFlag {
		sonifier := audio.NewSonifier(len(scenario.Lanes))
		if err := sonifier.Init(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer sonifier.Close()
			opts = append(opts, sim.WithVoice(sonifier))
		}
	}

	var recorder *render.Recorder
	if render.CaptureEnabled {
		recorder = newRecorder()
	}

	scheduler := sim.NewScheduler(storage, opts...)
	renderScheduler := render.NewScheduler(storage, recorder)

	if *debugUIFlag {
		ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage,
			debugui_ebiten.NewImguiBackend(windowTitle, cfg.CanvasWidth, cfg.CanvasHeight))
		debugui.SpawnDebugUI(storage,
			[]debugui.NamedScheduler{
				{Name: "Update", Scheduler: scheduler},
				{Name: "Render", Scheduler: renderScheduler},
			},
			debugui.Preset[sim.Transmitter]("Transmitters"),
			debugui.Preset[sim.Receiver]("Receivers"),
			debugui.Preset[sim.SignalParticle]("Particles"),
			debugui.Preset[sim.PlotPoint]("Plot"),
		)
		spawnWaveTuningWindow(storage)
		spawnReceiverWindow(storage)
		scheduler.Register(&debugui.ImguiSystem{})
	}

	ebiten.SetWindowSize(cfg.CanvasWidth, cfg.CanvasHeight)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &Game{
		Storage:         storage,
		Scheduler:       scheduler,
		RenderScheduler: renderScheduler,
		Input:           ecs.NewSingleton[sim.Input](storage),
		Target:          ecs.NewSingleton[render.Target](storage),
	}
	if *debugUIFlag {
		game.ImguiBackend = ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage)
		game.ImguiInput = ecs.NewSingleton[debugui.ImguiInputState](storage)
		game.ImguiVisible = ecs.NewSingleton[debugui.ImguiVisibility](storage)
	}

	runErr := ebiten.RunGame(game)

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			log.Printf("capture: %v", err)
		}
	}

	var stats *sim.Stats
	if storage.ReadSingleton(&stats) {
		log.Printf("spawned %d particles, plotted %d points, %d resets", stats.Spawned, stats.Plotted, stats.Resets)
	}

	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}

// newRecorder resolves the capture directory. A canceled folder picker
// disables capture instead of aborting.
func newRecorder() *render.Recorder {
	dir, err := render.ResolveCaptureDir(*captureDirFlag)
	if errors.Is(err, render.ErrCaptureCanceled) {
		log.Println("capture disabled: no directory selected")
		return nil
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("press space to save %d frames to %s", *captureFramesFlag, dir)
	return render.NewRecorder(dir, *captureFramesFlag)
}
