// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/doppl/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiVisibility hides every window while Hidden is set.
type ImguiVisibility struct {
	Hidden bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	Browsers   ecs.Query[struct{ *EntityBrowserComponent }]
	Inspectors ecs.Query[struct{ *ComponentInspectorComponent }]
	Viewers    ecs.Query[struct{ *ArchetypeViewerComponent }]
	Panels     ecs.Query[struct{ *PerformanceStatsComponent }]
	InputState ecs.Singleton[ImguiInputState]
	Visibility ecs.Singleton[ImguiVisibility]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if visibility := i.Visibility.Get(); visibility != nil && visibility.Hidden {
		return
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}

	// Inspectors follow the selection of the first browser, and clicking an
	// archetype narrows that browser to it.
	var browser *EntityBrowserComponent
	for b := range i.Browsers.Values() {
		browser = b.EntityBrowserComponent
		break
	}
	if browser != nil {
		frame.Commands.Defer(func() { browser.Render(frame.Storage) })
	}
	for inspector := range i.Inspectors.Values() {
		ci := inspector.ComponentInspectorComponent
		frame.Commands.Defer(func() {
			var selected ecs.EntityId
			if browser != nil {
				selected = browser.GetSelectedEntity()
			}
			ci.Render(frame.Storage, selected)
		})
	}
	for viewer := range i.Viewers.Values() {
		av := viewer.ArchetypeViewerComponent
		frame.Commands.Defer(func() {
			if id, ok := av.Render(frame.Storage); ok && browser != nil {
				browser.FilterArchetype(id)
			}
		})
	}
	for panel := range i.Panels.Values() {
		stats := panel.PerformanceStatsComponent
		frame.Commands.Defer(func() { stats.Render(frame.Storage) })
	}
}
