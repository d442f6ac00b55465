package main

import (
	"testing"
	"time"

	"github.com/plus3/doppl/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveEditsApply(t *testing.T) {
	cfg := sim.DefaultConfig()
	edits := &waveEdits{}
	edits.load(&cfg)

	assert.Equal(t, int32(10), edits.spawnInterval)
	assert.Equal(t, sim.DefaultScenario, edits.scenario)

	edits.frequency = 3
	edits.spawnInterval = 20
	edits.scenario = "static"
	require.True(t, edits.apply(&cfg))
	assert.Equal(t, 3.0, cfg.Wave.Frequency)
	assert.Equal(t, 20*time.Millisecond, cfg.SpawnInterval)
	assert.Equal(t, "static", cfg.Scenario)
	assert.NoError(t, edits.err)
}

func TestWaveEditsRejectInvalid(t *testing.T) {
	cfg := sim.DefaultConfig()
	edits := &waveEdits{}
	edits.load(&cfg)

	edits.speed = 0
	assert.False(t, edits.apply(&cfg))
	assert.ErrorIs(t, edits.err, sim.ErrInvalidConfig)
	assert.Equal(t, sim.DefaultSpeed, cfg.Wave.Speed)
}
