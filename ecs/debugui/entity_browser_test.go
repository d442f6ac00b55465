package debugui

import (
	"math"
	"reflect"
	"testing"

	"github.com/plus3/doppl/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitter struct {
	Frequency float64
}

type detector struct {
	Lane    int
	Samples uint8
	Level   int8
}

type blip struct{}

func newBrowserStorage(t *testing.T) (*ecs.Storage, []ecs.EntityId) {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[emitter](registry)
	ecs.RegisterComponent[detector](registry)
	ecs.RegisterComponent[blip](registry)
	storage := ecs.NewStorage(registry)

	ids := []ecs.EntityId{
		storage.Spawn(emitter{Frequency: 4}),
		storage.Spawn(detector{Lane: 0}),
		storage.Spawn(detector{Lane: 1}, blip{}),
		storage.Spawn(blip{}),
		storage.Spawn(blip{}),
	}
	return storage, ids
}

func TestEntityBrowserFilters(t *testing.T) {
	storage, ids := newBrowserStorage(t)
	browser := NewEntityBrowserComponent(100, Preset[detector]("Receivers"))
	browser.rebuildCache(storage)

	require.Len(t, browser.filteredEntities(), len(ids))

	t.Run("preset type", func(t *testing.T) {
		browser.ClearFilter()
		browser.filterType = browser.presets[0].Type
		var got []ecs.EntityId
		for _, e := range browser.filteredEntities() {
			got = append(got, e.ID)
		}
		assert.ElementsMatch(t, []ecs.EntityId{ids[1], ids[2]}, got)
	})

	t.Run("archetype", func(t *testing.T) {
		browser.ClearFilter()
		browser.FilterArchetype(ids[3].ArchetypeId())
		filtered := browser.filteredEntities()
		require.Len(t, filtered, 2)
		for _, e := range filtered {
			assert.Equal(t, ids[3].ArchetypeId(), e.ArchetypeID)
		}
	})

	t.Run("text matches component names", func(t *testing.T) {
		browser.ClearFilter()
		browser.filterText = "emitter"
		filtered := browser.filteredEntities()
		require.Len(t, filtered, 1)
		assert.Equal(t, ids[0], filtered[0].ID)
	})

	t.Run("text matches entity id", func(t *testing.T) {
		browser.ClearFilter()
		browser.filterText = ids[2].String()
		var got []ecs.EntityId
		for _, e := range browser.filteredEntities() {
			got = append(got, e.ID)
		}
		assert.Contains(t, got, ids[2])
		assert.NotContains(t, got, ids[1])
	})

	t.Run("clear", func(t *testing.T) {
		browser.filterText = "nothing matches this"
		browser.FilterArchetype(ids[0].ArchetypeId())
		browser.filterType = reflect.TypeFor[blip]()
		browser.currentPage = 3
		assert.Empty(t, browser.filteredEntities())

		browser.ClearFilter()
		assert.Len(t, browser.filteredEntities(), len(ids))
		assert.Zero(t, browser.currentPage)
	})
}

func TestEntityBrowserDropsDeletedEntities(t *testing.T) {
	storage, ids := newBrowserStorage(t)
	browser := NewEntityBrowserComponent(100)

	storage.Delete(ids[4])
	browser.rebuildCache(storage)

	for _, e := range browser.filteredEntities() {
		assert.NotEqual(t, ids[4], e.ID)
	}
	assert.Len(t, browser.filteredEntities(), len(ids)-1)
}

func TestEntityBrowserSort(t *testing.T) {
	storage, _ := newBrowserStorage(t)
	browser := NewEntityBrowserComponent(100)
	browser.rebuildCache(storage)

	entities := browser.filteredEntities()
	for i := 1; i < len(entities); i++ {
		assert.Less(t, entities[i-1].ID, entities[i].ID)
	}

	browser.cache.sortColumn = 2
	browser.cache.sortAscending = false
	browser.sortEntities()
	assert.Equal(t, []string{"emitter"}, browser.filteredEntities()[0].ComponentTypes)
}

func TestArchetypeViewerSkipsEmptyArchetypes(t *testing.T) {
	storage, ids := newBrowserStorage(t)
	viewer := NewArchetypeViewerComponent()

	storage.Delete(ids[0])
	viewer.refresh(storage)

	require.Len(t, viewer.archetypes, 3)
	// Default order is most populated first.
	assert.Equal(t, 2, viewer.archetypes[0].EntityCount)
	for _, arch := range viewer.archetypes {
		assert.NotContains(t, arch.ComponentTypes, "emitter")
	}
}

func TestShortTypeName(t *testing.T) {
	assert.Equal(t, "detector", shortTypeName(reflect.TypeFor[detector]()))
	assert.Equal(t, "[]int", shortTypeName(reflect.TypeFor[[]int]()))
}

func TestReflectionCacheMarksStringers(t *testing.T) {
	type row struct {
		Id      ecs.EntityId
		Count   int
		Parent  *ecs.EntityRef
		private int
	}

	fields := NewReflectionCache().GetFields(reflect.TypeFor[row]())
	require.Len(t, fields, 3)
	assert.True(t, fields[0].IsStringer)
	assert.False(t, fields[1].IsStringer)
	assert.True(t, fields[2].IsPointer)
	assert.True(t, fields[2].IsStruct)
}

func TestInspectorSettersRejectOverflow(t *testing.T) {
	d := detector{Lane: 1, Samples: 10, Level: 5}
	val := reflect.ValueOf(&d).Elem()

	setInt(val.FieldByName("Lane"), 7)
	setInt(val.FieldByName("Level"), 1000)
	setUint(val.FieldByName("Samples"), 300)
	assert.Equal(t, detector{Lane: 7, Samples: 10, Level: 5}, d)

	setUint(val.FieldByName("Samples"), 200)
	assert.Equal(t, uint8(200), d.Samples)

	e := struct{ F float32 }{F: 1}
	fval := reflect.ValueOf(&e).Elem().Field(0)
	setFloat(fval, math.MaxFloat64)
	assert.Equal(t, float32(1), e.F)
	setFloat(fval, 2.5)
	assert.Equal(t, float32(2.5), e.F)

	// Values reached through a non-pointer are not settable.
	setInt(reflect.ValueOf(d).FieldByName("Lane"), 9)
	assert.Equal(t, 7, d.Lane)
}
