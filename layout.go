package depot

import (
	"slices"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// Layout is the set of component types that defines an archetype. Order is not
// significant: two layouts built from the same types in any order are Equal.
type Layout struct {
	bits mask.Mask
	ids  []ComponentID
}

// NewLayout builds a layout from component handles.
func NewLayout(cs ...Component) Layout {
	var l Layout
	for _, c := range cs {
		l = l.with(c.ComponentID())
	}
	return l
}

func (l Layout) with(id ComponentID) Layout {
	if l.Contains(id) {
		return l
	}
	ids := make([]ComponentID, len(l.ids), len(l.ids)+1)
	copy(ids, l.ids)
	i, _ := slices.BinarySearch(ids, id)
	ids = slices.Insert(ids, i, id)

	bits := l.bits
	bits.Mark(uint32(id))
	return Layout{bits: bits, ids: ids}
}

// Contains reports whether the layout holds the component id.
func (l Layout) Contains(id ComponentID) bool {
	_, found := slices.BinarySearch(l.ids, id)
	return found
}

// Equal reports set equality.
func (l Layout) Equal(other Layout) bool {
	return l.bits == other.bits
}

// Len returns the number of component types.
func (l Layout) Len() int {
	return len(l.ids)
}

// IDs returns the component ids in ascending order.
func (l Layout) IDs() []ComponentID {
	return slices.Clone(l.ids)
}

// Mask returns the layout's bitset.
func (l Layout) Mask() mask.Mask {
	return l.bits
}

func (l Layout) String() string {
	names := make([]string, len(l.ids))
	for i, id := range l.ids {
		names[i] = components.nameOf(id)
	}
	return "{" + strings.Join(names, ", ") + "}"
}
