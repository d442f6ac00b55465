package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/doppl/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildrenAndDescendants(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Position{X: 1})
	child := storage.Spawn(Position{X: 2}, storage.ChildOf(root))
	grandchild := storage.Spawn(Velocity{}, storage.ChildOf(child))
	storage.Spawn(Position{X: 3})

	assert.ElementsMatch(t, []ecs.EntityId{child}, storage.Children(root))
	assert.ElementsMatch(t, []ecs.EntityId{child, grandchild}, storage.Descendants(root))

	parent, ok := storage.ParentOf(grandchild)
	require.True(t, ok)
	assert.Equal(t, child, parent)

	_, ok = storage.ParentOf(root)
	assert.False(t, ok)
}

func TestParentSurvivesArchetypeMove(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Position{}, Frozen{})
	child := storage.Spawn(Position{}, storage.ChildOf(root))

	moved := storage.RemoveComponent(root, reflect.TypeFor[Frozen]())

	parent, ok := storage.ParentOf(child)
	require.True(t, ok)
	assert.Equal(t, moved, parent)
	assert.ElementsMatch(t, []ecs.EntityId{child}, storage.Children(moved))
}

func TestDeleteRecursive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Position{})
	child := storage.Spawn(Position{}, storage.ChildOf(root))
	storage.Spawn(Velocity{}, storage.ChildOf(child))
	other := storage.Spawn(Position{X: 42})

	storage.DeleteRecursive(root)

	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
	assert.Equal(t, 42.0, ecs.ReadComponent[Position](storage, other).X)
}

func TestChildOfMissingEntityPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{})
	storage.Delete(id)

	assert.Panics(t, func() { storage.ChildOf(id) })
}
