// Package render draws the simulation with Ebiten. World sprites are drawn
// onto a fixed-resolution canvas that is then fitted into the window; text
// overlays are drawn on the screen at window resolution.
package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
)

// Target is the singleton the game loop fills before running the render
// scheduler.
type Target struct {
	Screen   *ebiten.Image
	Canvas   *ebiten.Image
	Viewport Viewport
}

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type drawItem struct {
	z      float64
	x, y   float64
	sprite *sim.Sprite
}

// RenderSystem draws every sprite at its global position, lowest Z first,
// then scales the canvas onto the screen.
type RenderSystem struct {
	Sprites ecs.Query[struct {
		*sim.Transform
		*sim.GlobalTransform
		*sim.Sprite
	}]
	Target ecs.Singleton[Target]

	items []drawItem
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	target := s.Target.Get()
	if target.Screen == nil || target.Canvas == nil {
		return
	}

	s.items = s.items[:0]
	for sprite := range s.Sprites.Values() {
		s.items = append(s.items, drawItem{
			z:      sprite.Transform.Z,
			x:      sprite.GlobalTransform.X,
			y:      sprite.GlobalTransform.Y,
			sprite: sprite.Sprite,
		})
	}
	sort.SliceStable(s.items, func(i, j int) bool { return s.items[i].z < s.items[j].z })

	canvas := target.Canvas
	canvas.Fill(sim.BackgroundColor)
	for _, item := range s.items {
		drawSprite(canvas, target.Viewport, item)
	}

	target.Screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{GeoM: target.Viewport.GeoM()}
	op.Filter = ebiten.FilterLinear
	target.Screen.DrawImage(canvas, op)
}

func drawSprite(dst *ebiten.Image, viewport Viewport, item drawItem) {
	cx, cy := viewport.WorldToCanvas(item.x, item.y)
	sprite := item.sprite

	switch sprite.Shape {
	case sim.ShapeCircle:
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(sprite.Width/2), sprite.Color, true)
	case sim.ShapeRect:
		vector.DrawFilledRect(dst,
			float32(cx-sprite.Width/2), float32(cy-sprite.Height/2),
			float32(sprite.Width), float32(sprite.Height),
			sprite.Color, false)
	case sim.ShapeTriangle:
		drawTriangle(dst, cx, cy, sprite.Width/2, sprite.Color)
	}
}

// drawTriangle draws a triangle pointing down the screen, two corners level
// with the top of its half-extent box.
func drawTriangle(dst *ebiten.Image, cx, cy, half float64, clr color.RGBA) {
	var path vector.Path
	path.MoveTo(float32(cx-half), float32(cy-half))
	path.LineTo(float32(cx+half), float32(cy-half))
	path.LineTo(float32(cx), float32(cy+half))
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}

	dst.DrawTriangles(vertices, indices, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
