package ecs

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks every archetype and counts live entities.
// Archetypes are reported in id order.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
		SingletonTypes: s.singletonTypeNames(),
	}

	for _, archetype := range s.GetArchetypes() {
		names := make([]string, len(archetype.types))
		for i, typ := range archetype.types {
			names[i] = typ.String()
		}

		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}

	return stats
}

// Count returns the number of live entities that carry every given component
// type, e.g. Count(Transmitter{}, Transform{}).
func (s *Storage) Count(components ...any) int {
	types := extractComponentTypes(components)
	total := 0
	for _, archetype := range s.archetypes {
		matches := true
		for _, typ := range types {
			if !archetype.HasComponent(typ) {
				matches = false
				break
			}
		}
		if matches {
			total += archetype.Len()
		}
	}
	return total
}
