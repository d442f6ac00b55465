package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
)

// Install creates the Target singleton with a canvas of the configured
// resolution.
func Install(storage *ecs.Storage, cfg sim.Config) {
	ecs.NewSingleton[Target](storage, Target{
		Canvas: ebiten.NewImage(cfg.CanvasWidth, cfg.CanvasHeight),
		Viewport: Viewport{
			CanvasWidth:  cfg.CanvasWidth,
			CanvasHeight: cfg.CanvasHeight,
			ScreenWidth:  cfg.CanvasWidth,
			ScreenHeight: cfg.CanvasHeight,
		},
	})
}

// NewScheduler registers the draw systems. A nil recorder disables capture.
func NewScheduler(storage *ecs.Storage, recorder *Recorder) *ecs.Scheduler {
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&RenderSystem{})
	if recorder != nil {
		scheduler.Register(&CaptureSystem{Recorder: recorder})
	}
	if HUDVisible() {
		scheduler.Register(&HUDSystem{})
	}
	return scheduler
}
