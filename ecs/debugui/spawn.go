package debugui

import "github.com/plus3/doppl/ecs"

// SpawnDebugUI spawns the browser, inspector, archetype and performance
// panels and makes sure the ImGui singletons exist. presets become one-click
// type filters in the entity browser.
func SpawnDebugUI(storage *ecs.Storage, schedulers []NamedScheduler, presets ...BrowserPreset) {
	ecs.NewSingleton[ImguiInputState](storage)
	ecs.NewSingleton[ImguiVisibility](storage)
	storage.Spawn(NewEntityBrowserComponent(100, presets...))
	storage.Spawn(NewComponentInspectorComponent())
	storage.Spawn(NewArchetypeViewerComponent())
	storage.Spawn(NewPerformanceStatsComponent(120, schedulers...))
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[ArchetypeViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
}
