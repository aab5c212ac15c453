package depot

import "math"

// MaxArchetypes is the hard ceiling on archetypes per world: ids are 16 bits wide.
const MaxArchetypes = math.MaxUint16

// archetypeTable is the world's append-only, capacity-bounded archetype sequence.
// An archetype's id is its index.
type archetypeTable struct {
	items       []*Archetype
	maxCapacity int
}

func newArchetypeTable(maxCapacity int) archetypeTable {
	return archetypeTable{maxCapacity: min(maxCapacity, MaxArchetypes)}
}

// Register appends a new archetype for the layout.
func (t *archetypeTable) Register(layout Layout, columnCapacity int) (*Archetype, error) {
	if len(t.items) >= t.maxCapacity {
		return nil, ArchetypeLimitError{Limit: t.maxCapacity}
	}
	arch := newArchetype(uint16(len(t.items)), layout, columnCapacity)
	t.items = append(t.items, arch)
	return arch, nil
}

func (t *archetypeTable) Get(id uint16) (*Archetype, bool) {
	if int(id) >= len(t.items) {
		return nil, false
	}
	return t.items[id], true
}

func (t *archetypeTable) Len() int {
	return len(t.items)
}

// Find returns the first archetype satisfying the predicate, scanning in id order.
func (t *archetypeTable) Find(predicate func(*Archetype) bool) (*Archetype, bool) {
	for _, arch := range t.items {
		if predicate(arch) {
			return arch, true
		}
	}
	return nil, false
}
