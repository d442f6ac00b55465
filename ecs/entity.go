package ecs

import "fmt"

// EntityId encodes both the archetype ID (upper 32 bits) and the entity index (lower 32 bits)
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and entity index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d:%d", e.ArchetypeId(), e.Index())
}

// EntityRef is a stable reference to an entity. Deleting the entity zeroes
// Id, and moving it between archetypes or compacting storage rewrites it.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Valid reports whether r still points at a live entity.
func (r *EntityRef) Valid() bool {
	return r != nil && r.Id != 0
}
