package main

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/ecs/debugui"
	"github.com/plus3/doppl/sim"
)

// waveEdits holds the values typed into the tuning window until they are
// applied.
type waveEdits struct {
	loaded        bool
	amplitude     float32
	frequency     float32
	speed         float32
	spawnInterval int32
	scenario      string
	err           error
}

func (e *waveEdits) load(cfg *sim.Config) {
	e.amplitude = float32(cfg.Wave.Amplitude)
	e.frequency = float32(cfg.Wave.Frequency)
	e.speed = float32(cfg.Wave.Speed)
	e.spawnInterval = int32(cfg.SpawnInterval / time.Millisecond)
	e.scenario = cfg.Scenario
	e.loaded = true
}

// apply validates the edits against a copy of cfg and only commits them
// when the result is valid.
func (e *waveEdits) apply(cfg *sim.Config) bool {
	next := *cfg
	next.Wave.Amplitude = float64(e.amplitude)
	next.Wave.Frequency = float64(e.frequency)
	next.Wave.Speed = float64(e.speed)
	next.SpawnInterval = time.Duration(e.spawnInterval) * time.Millisecond
	next.Scenario = e.scenario

	if e.err = next.Validate(); e.err != nil {
		return false
	}
	*cfg = next
	return true
}

func spawnWaveTuningWindow(storage *ecs.Storage) {
	edits := &waveEdits{}

	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			var cfg *sim.Config
			var input *sim.Input
			if !storage.ReadSingleton(&cfg) || !storage.ReadSingleton(&input) {
				return
			}
			if !edits.loaded {
				edits.load(cfg)
			}

			imgui.SetNextWindowPosV(imgui.NewVec2(400, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(300, 260), imgui.CondOnce)

			if imgui.BeginV("Wave", nil, 0) {
				imgui.Text("Scenario:")
				for _, name := range sim.ScenarioNames() {
					imgui.SameLine()
					if name == edits.scenario {
						imgui.TextColored(imgui.NewVec4(0.0, 1.0, 0.0, 1.0), name)
					} else if imgui.Button(name) {
						edits.scenario = name
					}
				}
				imgui.Separator()

				floatField("Amplitude", &edits.amplitude)
				floatField("Frequency (Hz)", &edits.frequency)
				floatField("Speed", &edits.speed)

				imgui.Text("Spawn interval (ms):")
				imgui.SameLine()
				imgui.SetNextItemWidth(120)
				imgui.InputInt("##spawn-interval", &edits.spawnInterval)

				imgui.Separator()
				if imgui.Button("Apply and restart") && edits.apply(cfg) {
					input.ResetPressed = true
				}
				imgui.SameLine()
				if imgui.Button("Revert") {
					edits.load(cfg)
					edits.err = nil
				}
				if edits.err != nil {
					imgui.TextColored(imgui.NewVec4(1.0, 0.3, 0.3, 1.0), edits.err.Error())
				}

				imgui.Separator()
				imgui.Text(fmt.Sprintf("Wavelength: %.1f", cfg.Wave.Wavelength()))
				imgui.Text(fmt.Sprintf("Period: %.3f s", cfg.Wave.Period()))
			}
			imgui.End()
		},
	})
}

func floatField(label string, v *float32) {
	imgui.Text(label + ":")
	imgui.SameLine()
	imgui.SetNextItemWidth(120)
	imgui.InputFloat("##"+label, v)
}

func spawnReceiverWindow(storage *ecs.Storage) {
	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			var clock *sim.Clock
			var stats *sim.Stats
			storage.ReadSingleton(&clock)
			storage.ReadSingleton(&stats)

			imgui.SetNextWindowPosV(imgui.NewVec2(400, 280), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(420, 220), imgui.CondOnce)

			if imgui.BeginV("Receivers", nil, 0) {
				if clock != nil {
					imgui.Text(fmt.Sprintf("Time: %.2f s", clock.Seconds()))
				}
				if stats != nil {
					imgui.Text(fmt.Sprintf("Spawned: %d  Received: %d  Plotted: %d", stats.Spawned, stats.Received, stats.Plotted))
					imgui.Text(fmt.Sprintf("Culled: %d  Resets: %d", stats.Culled, stats.Resets))
				}
				imgui.Separator()

				receivers := ecs.NewView[struct {
					ecs.EntityId
					*sim.Lane
					*sim.Receiver
					*sim.Mover `ecs:"optional"`
				}](storage)

				const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
				if imgui.BeginTableV("ReceiverTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
					imgui.TableSetupColumn("Entity")
					imgui.TableSetupColumn("Lane")
					imgui.TableSetupColumn("Movement")
					imgui.TableSetupColumn("Samples")
					imgui.TableSetupColumn("Measured")
					imgui.TableSetupColumn("Expected")
					imgui.TableHeadersRow()

					for rx := range receivers.Values() {
						imgui.TableNextRow()
						imgui.TableNextColumn()
						imgui.Text(rx.EntityId.String())
						imgui.TableNextColumn()
						imgui.Text(fmt.Sprintf("%d", rx.Lane.Index))
						imgui.TableNextColumn()
						if rx.Mover != nil {
							imgui.Text(rx.Lane.Movement.String())
						} else {
							imgui.TextColored(imgui.NewVec4(0.6, 0.6, 0.6, 1.0), "stopped")
						}
						imgui.TableNextColumn()
						imgui.Text(fmt.Sprintf("%d", rx.Receiver.Samples))
						imgui.TableNextColumn()
						if rx.Receiver.MeasuredFrequency > 0 {
							imgui.Text(fmt.Sprintf("%.2f Hz", rx.Receiver.MeasuredFrequency))
						} else {
							imgui.Text("--")
						}
						imgui.TableNextColumn()
						imgui.Text(fmt.Sprintf("%.2f Hz", rx.Receiver.ExpectedFrequency))
					}
					imgui.EndTable()
				}
			}
			imgui.End()
		},
	})
}
