package ecs

import "reflect"

// Parent attaches an entity to another one. The reference follows the parent
// across archetype moves and reads as dead once the parent is deleted.
// Parent is registered by NewComponentRegistry.
type Parent struct {
	Ref *EntityRef
}

var parentType = reflect.TypeFor[Parent]()

// ChildOf builds a Parent component pointing at id.
// It panics if id does not name a live entity.
func (s *Storage) ChildOf(id EntityId) Parent {
	ref := s.CreateEntityRef(id)
	if ref == nil {
		panic("ChildOf: parent entity does not exist")
	}
	return Parent{Ref: ref}
}

// ParentOf returns the id of the entity's parent.
func (s *Storage) ParentOf(id EntityId) (EntityId, bool) {
	comp := s.GetComponent(id, parentType)
	if comp == nil {
		return 0, false
	}
	return s.ResolveEntityRef(comp.(*Parent).Ref)
}

// Children returns the direct children of id.
func (s *Storage) Children(id EntityId) []EntityId {
	var children []EntityId
	for _, archetype := range s.archetypes {
		idx := archetype.storageIndex(parentType)
		if idx < 0 {
			continue
		}
		for index := range archetype.storages[idx].Iter() {
			parent := archetype.storages[idx].Get(index).(*Parent)
			if parent.Ref != nil && parent.Ref.Id == id {
				children = append(children, NewEntityId(archetype.id, uint32(index)))
			}
		}
	}
	return children
}

// Descendants returns every entity below id, depth first.
func (s *Storage) Descendants(id EntityId) []EntityId {
	var result []EntityId
	stack := s.Children(id)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, next)
		stack = append(stack, s.Children(next)...)
	}
	return result
}

// DeleteRecursive deletes id and all of its descendants.
func (s *Storage) DeleteRecursive(id EntityId) {
	for _, child := range s.Descendants(id) {
		s.Delete(child)
	}
	s.Delete(id)
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}
