package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	spawns           []spawnCommand
	deletes          []EntityId
	recursiveDeletes []EntityId
	adds             []addComponentCommand
	removes          []removeComponentCommand
	defers           []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// DeleteRecursive queues deletion of an entity together with everything
// parented to it. Descendants are resolved at flush time from the entities
// already in storage. Spawns queued in the same frame under a deleted parent
// are dropped rather than deleted.
func (c *Commands) DeleteRecursive(entity EntityId) {
	c.recursiveDeletes = append(c.recursiveDeletes, entity)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.recursiveDeletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Flush flushes all commands to the provided storage, reseting the buffer state
func (c *Commands) Flush(storage *Storage) {
	deletedEntities := make(map[EntityId]bool)

	// Expand before deleting anything: deleting a parent kills its ref.
	for _, root := range c.recursiveDeletes {
		c.deletes = append(c.deletes, storage.Descendants(root)...)
		c.deletes = append(c.deletes, root)
	}

	for _, cmd := range c.deletes {
		if deletedEntities[cmd] {
			continue
		}
		storage.Delete(cmd)
		deletedEntities[cmd] = true
	}

	for _, cmd := range c.removes {
		if !deletedEntities[cmd.entity] {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !deletedEntities[cmd.entity] {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		if orphaned(cmd.components) {
			continue
		}
		storage.Spawn(cmd.components...)
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.recursiveDeletes = c.recursiveDeletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}

// orphaned reports whether a queued spawn names a parent that no longer exists.
func orphaned(components []any) bool {
	for _, comp := range components {
		var parent *Parent
		switch p := comp.(type) {
		case Parent:
			parent = &p
		case *Parent:
			parent = p
		default:
			continue
		}
		return !parent.Ref.Valid()
	}
	return false
}
