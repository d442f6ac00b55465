package render_test

import (
	"testing"

	"github.com/plus3/doppl/render"
	"github.com/stretchr/testify/assert"
)

func TestViewportScale(t *testing.T) {
	tests := []struct {
		name           string
		screenW        int
		screenH        int
		scale          float64
		offsetX, offsY float64
	}{
		{"native", 1280, 720, 1, 0, 0},
		{"double", 2560, 1440, 2, 0, 0},
		{"wide window letterboxes sides", 1920, 720, 1, 320, 0},
		{"tall window letterboxes top", 640, 720, 0.5, 0, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := render.Viewport{CanvasWidth: 1280, CanvasHeight: 720, ScreenWidth: tt.screenW, ScreenHeight: tt.screenH}

			assert.Equal(t, tt.scale, v.Scale())
			ox, oy := v.Offset()
			assert.Equal(t, tt.offsetX, ox)
			assert.Equal(t, tt.offsY, oy)
		})
	}
}

func TestViewportWorldMapping(t *testing.T) {
	v := render.Viewport{CanvasWidth: 1280, CanvasHeight: 720, ScreenWidth: 640, ScreenHeight: 720}

	cx, cy := v.WorldToCanvas(0, 0)
	assert.Equal(t, [2]float64{640, 360}, [2]float64{cx, cy})

	cx, cy = v.WorldToCanvas(400, 200)
	assert.Equal(t, [2]float64{1040, 160}, [2]float64{cx, cy}, "y grows upwards in the world")

	wx, wy := v.CanvasToWorld(cx, cy)
	assert.Equal(t, [2]float64{400, 200}, [2]float64{wx, wy})

	sx, sy := v.CanvasToScreen(1280, 720)
	assert.Equal(t, [2]float64{640, 540}, [2]float64{sx, sy})

	px, py := v.ScreenToCanvas(sx, sy)
	assert.Equal(t, [2]float64{1280, 720}, [2]float64{px, py})

	m := v.GeoM()
	gx, gy := m.Apply(0, 0)
	assert.Equal(t, [2]float64{0, 180}, [2]float64{gx, gy})
}

func TestViewportDegenerateCanvas(t *testing.T) {
	assert.Equal(t, 1.0, render.Viewport{ScreenWidth: 100, ScreenHeight: 100}.Scale())
}
