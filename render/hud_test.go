package render_test

import (
	"testing"

	"github.com/plus3/doppl/render"
	"github.com/plus3/doppl/sim"
	"github.com/stretchr/testify/assert"
)

func TestReceiverReadout(t *testing.T) {
	lane := &sim.Lane{Index: 1, Movement: sim.Right}

	rx := &sim.Receiver{ExpectedFrequency: 3}
	assert.Equal(t, "lane 1 (right): measured --, expected 3.00 Hz", render.ReceiverReadout(lane, rx))

	rx.MeasuredFrequency = 2.987
	assert.Equal(t, "lane 1 (right): measured 2.99 Hz, expected 3.00 Hz", render.ReceiverReadout(lane, rx))
}

func TestHUDVisibleFollowsCaptureBuild(t *testing.T) {
	if render.CaptureEnabled {
		assert.False(t, render.HUDVisible())
	}
}
