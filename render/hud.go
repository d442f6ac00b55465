package render

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
)

const restartHint = "Press 'r' to restart the simulation"

// HUDVisible reports whether the text overlay is drawn. Browser builds and
// frame-capture builds keep the picture clean.
func HUDVisible() bool {
	return runtime.GOOS != "js" && !CaptureEnabled
}

// HUDSystem prints the restart hint and one readout line per receiver.
type HUDSystem struct {
	Receivers ecs.Query[struct {
		*sim.Receiver
		*sim.Lane
	}]
	Particles ecs.Query[struct{ *sim.SignalParticle }]
	Target    ecs.Singleton[Target]
	Stats     ecs.Singleton[sim.Stats]

	lines []string
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	target := s.Target.Get()
	if target.Screen == nil {
		return
	}

	ebitenutil.DebugPrintAt(target.Screen, restartHint, 15, 15)

	s.lines = s.lines[:0]
	for rx := range s.Receivers.Values() {
		s.lines = append(s.lines, ReceiverReadout(rx.Lane, rx.Receiver))
	}
	sort.Strings(s.lines)

	y := 35
	for _, line := range s.lines {
		ebitenutil.DebugPrintAt(target.Screen, line, 15, y)
		y += 16
	}

	if stats := s.Stats.Get(); stats != nil {
		ebitenutil.DebugPrintAt(target.Screen,
			fmt.Sprintf("particles %d  spawned %d  received %d  culled %d  resets %d",
				s.Particles.Len(), stats.Spawned, stats.Received, stats.Culled, stats.Resets),
			15, y+8)
	}
}

// ReceiverReadout formats a receiver's measured and expected frequency.
func ReceiverReadout(lane *sim.Lane, rx *sim.Receiver) string {
	measured := "--"
	if rx.MeasuredFrequency > 0 {
		measured = fmt.Sprintf("%.2f Hz", rx.MeasuredFrequency)
	}
	return fmt.Sprintf("lane %d (%s): measured %s, expected %.2f Hz", lane.Index, lane.Movement, measured, rx.ExpectedFrequency)
}
