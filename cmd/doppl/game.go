package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/ecs/debugui"
	debugui_ebiten "github.com/plus3/doppl/ecs/debugui/ebiten"
	"github.com/plus3/doppl/render"
	"github.com/plus3/doppl/sim"
)

type Game struct {
	Storage         *ecs.Storage
	Scheduler       *ecs.Scheduler
	RenderScheduler *ecs.Scheduler

	Input        *ecs.Singleton[sim.Input]
	Target       *ecs.Singleton[render.Target]
	ImguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	ImguiInput   *ecs.Singleton[debugui.ImguiInputState]
	ImguiVisible *ecs.Singleton[debugui.ImguiVisibility]
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.ImguiBackend != nil && inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		visibility := g.ImguiVisible.Get()
		visibility.Hidden = !visibility.Hidden
	}

	if !g.keyboardCaptured() {
		input := g.Input.Get()
		input.ResetPressed = input.ResetPressed || inpututil.IsKeyJustPressed(ebiten.KeyR)
		input.CapturePressed = input.CapturePressed || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	}

	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().BeginFrame()
	}
	g.Scheduler.Once(1.0 / float64(ebiten.TPS()))
	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().EndFrame()
	}
	return nil
}

// keyboardCaptured reports whether an ImGui text field has focus.
func (g *Game) keyboardCaptured() bool {
	if g.ImguiInput == nil {
		return false
	}
	state := g.ImguiInput.Get()
	return state != nil && state.WantCaptureKeyboard
}

func (g *Game) Draw(screen *ebiten.Image) {
	target := g.Target.Get()
	target.Screen = screen
	target.Viewport.ScreenWidth = screen.Bounds().Dx()
	target.Viewport.ScreenHeight = screen.Bounds().Dy()

	g.RenderScheduler.Once(0)

	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.ImguiBackend != nil {
		g.ImguiBackend.Get().Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
