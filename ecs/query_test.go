package ecs_test

import (
	"testing"

	"github.com/plus3/doppl/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	storage.Spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	storage.Spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	t.Run("execute builds cache", func(t *testing.T) {
		query.Execute()
		assert.Equal(t, 3, query.Len())
	})

	t.Run("panics without execute", func(t *testing.T) {
		fresh := ecs.NewQuery[struct {
			*Position
			*Velocity
		}](storage)

		assert.Panics(t, func() {
			for range fresh.Iter() {
			}
		})
		assert.Panics(t, func() {
			for range fresh.Values() {
			}
		})
	})

	t.Run("iterations are stable between executes", func(t *testing.T) {
		query.Execute()

		first := map[ecs.EntityId]bool{}
		for id := range query.Iter() {
			first[id] = true
		}
		second := map[ecs.EntityId]bool{}
		for id := range query.Iter() {
			second[id] = true
		}
		assert.Equal(t, first, second)
	})

	t.Run("cache reflects new archetypes after re-execute", func(t *testing.T) {
		query.Execute()
		before := query.Len()

		storage.Spawn(Position{X: 10}, Velocity{DX: 2}, Frozen{})
		assert.Equal(t, before, query.Len())

		query.Execute()
		assert.Equal(t, before+1, query.Len())
	})

	t.Run("values", func(t *testing.T) {
		query.Execute()

		count := 0
		for item := range query.Values() {
			assert.NotNil(t, item.Position)
			assert.NotNil(t, item.Velocity)
			count++
		}
		assert.Equal(t, 4, count)
	})

	t.Run("deleted entities drop out", func(t *testing.T) {
		query.Execute()
		var victim ecs.EntityId
		for id := range query.Iter() {
			victim = id
			break
		}
		storage.Delete(victim)

		query.Execute()
		for id := range query.Iter() {
			assert.NotEqual(t, victim, id)
		}
		assert.Equal(t, 3, query.Len())
	})
}
