package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/doppl/ecs"
	"github.com/plus3/doppl/sim"
)

type Report struct {
	// Configuration
	Scenario       string
	Simulated      time.Duration
	Step           time.Duration
	GCPauseMetrics bool

	// Results
	Aborted       bool
	TotalUpdates  int64
	TotalTime     time.Duration
	UpdateTime    Stats
	PeakEntities  int
	Sim           sim.Stats
	Scheduler     ecs.SchedulerStats
	Storage       ecs.StorageStats
	Receivers     []ReceiverResult
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type ReceiverResult struct {
	Lane     int
	Movement string
	Samples  int
	Measured float64
	Expected float64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := append([]time.Duration(nil), s.Samples...)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `# Doppler Simulation Report

## Configuration
- **Scenario:** {{.Scenario}}
- **Simulated Time:** {{.Simulated}}
- **Time Step:** {{.Step}}
{{- if .Aborted}}
- **Aborted:** wall time limit reached
{{- end}}

## Performance
- **Total Updates:** {{.TotalUpdates}}
- **Wall Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **P99:** {{.UpdateTime.P99}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

| System | Runs | Avg | Max |
|--------|------|-----|-----|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Entities
- **Peak Entities:** {{.PeakEntities}}
- **Final Entities:** {{.Storage.TotalEntityCount}} in {{.Storage.ArchetypeCount}} archetypes
- **Particles Spawned:** {{.Sim.Spawned}}
- **Particles Received:** {{.Sim.Received}}
- **Particles Culled:** {{.Sim.Culled}}
- **Points Plotted:** {{.Sim.Plotted}}
- **Resets:** {{.Sim.Resets}}

## Receivers
| Lane | Movement | Samples | Measured | Expected |
|------|----------|---------|----------|----------|
{{- range .Receivers}}
| {{.Lane}} | {{.Movement}} | {{.Samples}} | {{if gt .Measured 0.0}}{{hz .Measured}}{{else}}--{{end}} | {{hz .Expected}} |
{{- end}}

## Memory Usage (MB)
- Heap Alloc:  {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc: {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Num GC:      {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{usub64 .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"hz": func(v float64) string {
			return fmt.Sprintf("%.2f Hz", v)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"usub64": func(a, b uint64) uint64 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
