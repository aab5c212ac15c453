package depot

import (
	"iter"
	"slices"

	"github.com/TheBitDrifter/depot/internal/borrow"
	"github.com/TheBitDrifter/mask"
)

var _ mask.Maskable = &Archetype{}

// Slot is a generational index into an archetype's entity table.
type Slot struct {
	Index      int
	Generation uint32
}

// Archetype stores every entity sharing one exact layout. Columns are created
// lazily, the first time a value of their type is pushed.
type Archetype struct {
	id             uint16
	layout         Layout
	columns        map[ComponentID]column
	slots          []Slot
	dead           []int // ascending
	columnCapacity int
}

func newArchetype(id uint16, layout Layout, columnCapacity int) *Archetype {
	return &Archetype{
		id:             id,
		layout:         layout,
		columns:        make(map[ComponentID]column, layout.Len()),
		columnCapacity: columnCapacity,
	}
}

// ID returns the archetype's index in its world.
func (a *Archetype) ID() uint16 {
	return a.id
}

func (a *Archetype) Layout() Layout {
	return a.layout
}

func (a *Archetype) Mask() mask.Mask {
	return a.layout.bits
}

// insert consumes the prototype and stores its components in a fresh slot.
// The prototype layout must equal the archetype layout. The caller holds the
// world's structural lock.
func (a *Archetype) insert(p *Prototype) Slot {
	if p.consumed {
		panic(PrototypeConsumedError{})
	}
	if got := p.Layout(); !got.Equal(a.layout) {
		panic(LayoutMismatchError{Archetype: a.id, Want: a.layout, Got: got})
	}
	layout, values := p.take()
	return a.insertValues(layout, values)
}

func (a *Archetype) insertValues(layout Layout, values []Value) Slot {
	if !layout.Equal(a.layout) {
		panic(LayoutMismatchError{Archetype: a.id, Want: a.layout, Got: layout})
	}

	// Borrow every target column before touching the entity table, so a contested
	// column leaves the archetype as it was.
	cols := make([]column, len(values))
	guards := make([]*borrow.Guard, 0, len(values))
	defer func() {
		for _, g := range guards {
			g.Release()
		}
	}()
	for i, v := range values {
		id := v.ComponentID()
		if !a.layout.Contains(id) {
			panic(ComponentNotInLayoutError{Component: v.Name(), Layout: a.layout})
		}
		col, ok := a.columns[id]
		if !ok {
			col = v.newColumn(a.columnCapacity)
			a.columns[id] = col
		}
		guards = append(guards, col.borrowCell().TryWrite(col.label()))
		cols[i] = col
	}

	slot := a.allocate()
	alive := a.Len()
	for i, v := range values {
		col := cols[i]
		col.appendValue(v)
		if col.size() != alive {
			panic(ColumnLengthError{Component: v.Name(), Length: col.size(), Alive: alive})
		}
	}
	return slot
}

// allocate reuses the lowest dead index, bumping its generation, or appends a new
// slot at generation 0.
func (a *Archetype) allocate() Slot {
	if len(a.dead) > 0 {
		index := a.dead[0]
		a.dead = a.dead[1:]
		slot := Slot{Index: index, Generation: a.slots[index].Generation + 1}
		a.slots[index] = slot
		return slot
	}
	slot := Slot{Index: len(a.slots)}
	a.slots = append(a.slots, slot)
	return slot
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	return len(a.slots) - len(a.dead)
}

// Entities yields the live slots in table order. The sequence is computed from the
// current state each time it is ranged over.
func (a *Archetype) Entities() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for i, slot := range a.slots {
			if a.isDead(i) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// IsAlive reports whether the handle's generation is the current one for its index.
func (a *Archetype) IsAlive(slot Slot) bool {
	if slot.Index < 0 || slot.Index >= len(a.slots) || a.isDead(slot.Index) {
		return false
	}
	return a.slots[slot.Index].Generation == slot.Generation
}

func (a *Archetype) isDead(index int) bool {
	_, found := slices.BinarySearch(a.dead, index)
	return found
}

// ColumnLen returns the number of values stored for a component, or false when the
// archetype has no such column yet.
func (a *Archetype) ColumnLen(id ComponentID) (int, bool) {
	col, ok := a.columns[id]
	if !ok {
		return 0, false
	}
	return col.size(), true
}
