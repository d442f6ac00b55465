package debugui

import (
	"fmt"
	"reflect"
	"sync"
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

// FieldInfo describes one exported field of a component type.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	IsSlice   bool
	IsMap     bool
	// IsStringer marks non-struct named types such as enums and ids that
	// read better through their String method than as raw numbers.
	IsStringer bool
}

type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Ptr
			if isPointer {
				fieldType = fieldType.Elem()
			}

			isStruct := fieldType.Kind() == reflect.Struct
			fields = append(fields, FieldInfo{
				Name:       field.Name,
				Type:       fieldType,
				Index:      i,
				IsPointer:  isPointer,
				IsStruct:   isStruct,
				IsSlice:    fieldType.Kind() == reflect.Slice,
				IsMap:      fieldType.Kind() == reflect.Map,
				IsStringer: !isStruct && fieldType.Implements(stringerType),
			})
		}
	}

	rc.fieldCache[t] = fields
	return fields
}

var globalReflectionCache = NewReflectionCache()
