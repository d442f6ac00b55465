package ecs

import (
	"reflect"
	"sort"
	"unsafe"
)

// singletonEntry holds the single instance of a singleton component type.
// dataPtr stays valid for the lifetime of the entry, so Singleton accessors
// can cache it.
type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// AddSingleton stores component as the singleton for its type, replacing any
// previous value. Passing a pointer stores the pointed-to value by reference,
// so later reads observe writes made through that pointer.
func (s *Storage) AddSingleton(component any) {
	if component == nil {
		panic("cannot add nil singleton")
	}

	val := reflect.ValueOf(component)
	typ := val.Type()

	if typ.Kind() != reflect.Ptr {
		if existing, ok := s.singletons[typ]; ok {
			// Overwrite in place so cached accessor pointers stay valid.
			existing.value.Elem().Set(val)
			return
		}
		ptr := reflect.New(typ)
		ptr.Elem().Set(val)
		val = ptr
	} else {
		if val.IsNil() {
			panic("cannot add nil singleton")
		}
		typ = typ.Elem()
	}

	s.singletons[typ] = &singletonEntry{
		typ:     typ,
		value:   val,
		dataPtr: val.UnsafePointer(),
	}
}

// ReadSingleton fills out, which must be a **T, with a pointer to the T
// singleton. It returns false when no singleton of that type exists.
func (s *Storage) ReadSingleton(out any) bool {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	entry := s.getSingletonEntry(outVal.Elem().Type().Elem())
	if entry == nil {
		return false
	}

	outVal.Elem().Set(entry.value)
	return true
}

// RemoveSingleton drops the singleton of the given type. Accessors that
// cached its pointer keep the old value alive until they refresh.
func (s *Storage) RemoveSingleton(typ reflect.Type) bool {
	if _, ok := s.singletons[typ]; !ok {
		return false
	}
	delete(s.singletons, typ)
	return true
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

func (s *Storage) singletonTypeNames() []string {
	names := make([]string, 0, len(s.singletons))
	for typ := range s.singletons {
		names = append(names, typ.String())
	}
	sort.Strings(names)
	return names
}
