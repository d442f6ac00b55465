package main

import (
	"flag"

	"github.com/plus3/doppl/render"
	"github.com/plus3/doppl/sim"
)

var (
	scenarioFlag      = flag.String("scenario", sim.DefaultScenario, "lane layout to simulate (doppler, static, approach)")
	amplitudeFlag     = flag.Float64("amplitude", sim.DefaultAmplitude, "wave amplitude in world units")
	frequencyFlag     = flag.Float64("frequency", sim.DefaultFrequency, "source frequency in Hz")
	speedFlag         = flag.Float64("speed", sim.DefaultSpeed, "wave speed in world units per second; negative travels left")
	spawnIntervalFlag = flag.Duration("spawn-interval", sim.DefaultSpawnInterval, "time between particles emitted by a transmitter")
	resetIntervalFlag = flag.Duration("reset-interval", sim.DefaultResetInterval, "restart the simulation this often")

	// audioFlag plays each receiver's measured frequency as a tone.
	audioFlag = flag.Bool("audio", false, "sonify what the receivers hear")

	// debugUIFlag shows the ImGui overlay (toggle with F1).
	debugUIFlag = flag.Bool("debug-ui", false, "show performance and tuning windows")

	captureDirFlag    = flag.String("capture-dir", render.DefaultCaptureDir, "where captured frames go; \"ask\" opens a folder picker (gifcreate builds)")
	captureFramesFlag = flag.Int("capture-frames", render.DefaultCaptureFrames, "number of frames saved after pressing space (gifcreate builds)")
)

func configFromFlags() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Scenario = *scenarioFlag
	cfg.Wave.Amplitude = *amplitudeFlag
	cfg.Wave.Frequency = *frequencyFlag
	cfg.Wave.Speed = *speedFlag
	cfg.SpawnInterval = *spawnIntervalFlag
	cfg.ResetInterval = *resetIntervalFlag
	return cfg
}
