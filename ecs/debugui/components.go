package debugui

import (
	"reflect"

	"github.com/plus3/doppl/ecs"
)

// NamedScheduler labels a scheduler whose per-system timings are shown.
type NamedScheduler struct {
	Name      string
	Scheduler *ecs.Scheduler
}

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	filterArchetypeId  *uint32
	filterType         reflect.Type
	presets            []BrowserPreset
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

type ArchetypeViewerComponent struct {
	archetypes     []ArchetypeInfo
	selectedArchId *uint32
	sortColumn     int
	sortAscending  bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	frameTimer    *FrameTimer
	schedulers    []NamedScheduler
}
