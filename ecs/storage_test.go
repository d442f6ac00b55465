package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/doppl/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
			assert.Equal(t, fmt.Sprintf("%d:%d", tt.archetypeId, tt.index), id.String())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 3, Y: 4}, Name("beacon"))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, 3.0, pos.X)
	assert.Equal(t, 4.0, pos.Y)

	assert.Equal(t, Name("beacon"), *ecs.ReadComponent[Name](storage, id))
	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Velocity]()))
}

func TestSpawnOrderDoesNotChangeArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.Index(), b.Index())
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(struct{ Unregistered int }{}) })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
}

func TestDeleteReusesSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	storage.Delete(first)
	assert.Nil(t, storage.GetComponent(first, reflect.TypeFor[Position]()))

	second := storage.Spawn(Position{X: 2})
	assert.Equal(t, first, second)
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, second).X)
}

func TestAddComponentMovesEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1, Y: 2})
	moved := storage.AddComponent(id, Velocity{DX: 5})

	assert.NotEqual(t, id.ArchetypeId(), moved.ArchetypeId())
	assert.Equal(t, 1.0, ecs.ReadComponent[Position](storage, moved).X)
	assert.Equal(t, 5.0, ecs.ReadComponent[Velocity](storage, moved).DX)
	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Position]()))
}

func TestAddExistingComponentOverwrites(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	same := storage.AddComponent(id, Position{X: 9})

	assert.Equal(t, id, same)
	assert.Equal(t, 9.0, ecs.ReadComponent[Position](storage, id).X)
}

func TestRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	t.Run("moves to smaller archetype", func(t *testing.T) {
		id := storage.Spawn(Position{X: 7}, Frozen{})
		moved := storage.RemoveComponent(id, reflect.TypeFor[Frozen]())

		assert.NotEqual(t, id, moved)
		assert.False(t, storage.HasComponent(moved, reflect.TypeFor[Frozen]()))
		assert.Equal(t, 7.0, ecs.ReadComponent[Position](storage, moved).X)
	})

	t.Run("missing component is a no-op", func(t *testing.T) {
		id := storage.Spawn(Position{X: 8})
		same := storage.RemoveComponent(id, reflect.TypeFor[Frozen]())

		assert.Equal(t, id, same)
		assert.Equal(t, 8.0, ecs.ReadComponent[Position](storage, same).X)
	})

	t.Run("last component deletes entity", func(t *testing.T) {
		id := storage.Spawn(Name("solo"))
		assert.Equal(t, ecs.EntityId(0), storage.RemoveComponent(id, reflect.TypeFor[Name]()))
	})
}

func TestEntityRefFollowsMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Frozen{})
	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)
	assert.True(t, ref.Valid())
	assert.Same(t, ref, storage.CreateEntityRef(id))

	moved := storage.RemoveComponent(id, reflect.TypeFor[Frozen]())
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, moved, resolved)

	storage.Delete(moved)
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	assert.False(t, ref.Valid())
	assert.Nil(t, storage.CreateEntityRef(moved))
}

func TestCompactKeepsRefs(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var ids []ecs.EntityId
	for i := range 10 {
		ids = append(ids, storage.Spawn(Position{X: float64(i)}))
	}
	last := storage.CreateEntityRef(ids[9])
	for _, id := range ids[:5] {
		storage.Delete(id)
	}

	storage.Compact()

	id, ok := storage.ResolveEntityRef(last)
	require.True(t, ok)
	assert.Equal(t, 9.0, ecs.ReadComponent[Position](storage, id).X)
	assert.Equal(t, 5, storage.Count(Position{}))
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Zero(t, stats.ArchetypeCount)
	assert.Zero(t, stats.TotalEntityCount)
	assert.Zero(t, stats.SingletonCount)

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Health{Current: 1, Max: 1})
	ecs.NewSingleton[Name](storage, "world")

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Name"}, stats.SingletonTypes)

	counts := map[int]bool{}
	for _, arch := range stats.ArchetypeBreakdown {
		counts[arch.EntityCount] = true
	}
	assert.True(t, counts[1])
	assert.True(t, counts[2])
}

func TestSingletonSet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	health := ecs.NewSingleton[Health](storage, Health{Current: 1, Max: 1})
	health.Set(Health{Current: 4, Max: 9})
	assert.Equal(t, Health{Current: 4, Max: 9}, *health.Get())

	var stored *Health
	require.True(t, storage.ReadSingleton(&stored))
	assert.Same(t, health.Get(), stored)
}

func TestReadComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 3})

	position := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, position)
	assert.Equal(t, 3.0, position.X)

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.Nil(t, ecs.ReadComponent[ecs.Parent](storage, id))

	storage.Delete(id)
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))
}
