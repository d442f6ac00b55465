package render

import "github.com/hajimehoshi/ebiten/v2"

// Viewport maps between the world, the fixed-resolution canvas and the
// window. The world is y-up with its origin at the canvas center; the canvas
// is fitted into the window keeping its aspect ratio.
type Viewport struct {
	CanvasWidth  int
	CanvasHeight int
	ScreenWidth  int
	ScreenHeight int
}

// Scale is the canvas-to-screen factor, min(screenW/canvasW, screenH/canvasH).
func (v Viewport) Scale() float64 {
	if v.CanvasWidth <= 0 || v.CanvasHeight <= 0 {
		return 1
	}
	return min(float64(v.ScreenWidth)/float64(v.CanvasWidth), float64(v.ScreenHeight)/float64(v.CanvasHeight))
}

// Offset is where the canvas' top-left corner lands on the screen.
func (v Viewport) Offset() (float64, float64) {
	s := v.Scale()
	return (float64(v.ScreenWidth) - float64(v.CanvasWidth)*s) / 2,
		(float64(v.ScreenHeight) - float64(v.CanvasHeight)*s) / 2
}

func (v Viewport) WorldToCanvas(x, y float64) (float64, float64) {
	return x + float64(v.CanvasWidth)/2, float64(v.CanvasHeight)/2 - y
}

func (v Viewport) CanvasToWorld(x, y float64) (float64, float64) {
	return x - float64(v.CanvasWidth)/2, float64(v.CanvasHeight)/2 - y
}

func (v Viewport) CanvasToScreen(x, y float64) (float64, float64) {
	s := v.Scale()
	ox, oy := v.Offset()
	return x*s + ox, y*s + oy
}

func (v Viewport) ScreenToCanvas(x, y float64) (float64, float64) {
	s := v.Scale()
	ox, oy := v.Offset()
	return (x - ox) / s, (y - oy) / s
}

// GeoM draws the canvas image onto the screen.
func (v Viewport) GeoM() ebiten.GeoM {
	var m ebiten.GeoM
	s := v.Scale()
	m.Scale(s, s)
	m.Translate(v.Offset())
	return m
}
