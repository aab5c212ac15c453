package depot

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

// ComponentID is the process-wide bit index of a component type.
type ComponentID uint32

// Component represents a data attribute/state that can be attached to entities.
// Components can be used to build prototypes, queries and filters.
type Component interface {
	table.ElementType
	ComponentID() ComponentID
	Name() string
}

// ComponentType is the typed handle of one component type. Handles for the same Go
// type are interchangeable: they share one ComponentID.
type ComponentType[T any] struct {
	table.ElementType
	id   ComponentID
	name string
}

var components = componentRegistry{
	schema: table.Factory.NewSchema(),
	byType: make(map[reflect.Type]registeredComponent),
	byID:   make(map[ComponentID]string),
	limit:  mask.MaxBits,
}

type componentRegistry struct {
	mu     sync.RWMutex
	schema table.Schema
	byType map[reflect.Type]registeredComponent
	byID   map[ComponentID]string
	limit  int // layout masks hold this many bits
}

type registeredComponent struct {
	element table.ElementType
	id      ComponentID
}

func componentTypeOf[T any]() ComponentType[T] {
	typ := reflect.TypeFor[T]()

	components.mu.RLock()
	reg, ok := components.byType[typ]
	components.mu.RUnlock()
	if !ok {
		reg = components.register(typ, func() table.ElementType {
			return table.FactoryNewElementType[T]()
		})
	}
	return ComponentType[T]{
		ElementType: reg.element,
		id:          reg.id,
		name:        typ.String(),
	}
}

func (r *componentRegistry) register(typ reflect.Type, newElement func() table.ElementType) registeredComponent {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have won the race
	if reg, ok := r.byType[typ]; ok {
		return reg
	}
	if len(r.byType) >= r.limit {
		panic(ComponentLimitError{Component: typ.String(), Limit: r.limit})
	}
	element := newElement()
	r.schema.Register(element)
	reg := registeredComponent{
		element: element,
		id:      ComponentID(r.schema.RowIndexFor(element)),
	}
	r.byType[typ] = reg
	r.byID[reg.id] = typ.String()
	return reg
}

func (r *componentRegistry) nameOf(id ComponentID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// ComponentID returns the bit index shared by every handle of T.
func (c ComponentType[T]) ComponentID() ComponentID {
	return c.id
}

// Name returns the Go type name of T.
func (c ComponentType[T]) Name() string {
	return c.name
}

// Value boxes one instance of T so it can be attached to a Prototype.
func (c ComponentType[T]) Value(v T) Value {
	return value[T]{component: c, v: v}
}

// Lookup copies the component of a live entity. It reports false when the entity is
// dead, unknown, or has no T.
func (c ComponentType[T]) Lookup(w *World, e Entity) (T, bool) {
	var zero T
	w.mu.RLock()
	defer w.mu.RUnlock()

	arch, ok := w.archetypes.Get(e.Archetype)
	if !ok || !arch.IsAlive(e.Slot) {
		return zero, false
	}
	col, ok := arch.columns[c.id]
	if !ok {
		return zero, false
	}
	tc := col.(*typedColumn[T])
	guard := tc.cell.TryRead(tc.name)
	defer guard.Release()
	if e.Slot.Index >= len(tc.values) {
		return zero, false
	}
	return tc.values[e.Slot.Index], true
}

// ReadColumn borrows the archetype's column of T for reading. It reports false when
// the layout has no T and panics when the column is borrowed for writing.
func (c ComponentType[T]) ReadColumn(a *Archetype) (*ColumnReader[T], bool) {
	tc, ok := c.columnOf(a)
	if !ok {
		return nil, false
	}
	return &ColumnReader[T]{guard: tc.cell.TryRead(tc.name), values: tc.values}, true
}

// WriteColumn borrows the archetype's column of T exclusively. It reports false when
// the layout has no T and panics when the column is borrowed at all.
func (c ComponentType[T]) WriteColumn(a *Archetype) (*ColumnWriter[T], bool) {
	tc, ok := c.columnOf(a)
	if !ok {
		return nil, false
	}
	return &ColumnWriter[T]{guard: tc.cell.TryWrite(tc.name), values: tc.values}, true
}

func (c ComponentType[T]) columnOf(a *Archetype) (*typedColumn[T], bool) {
	if !a.layout.Contains(c.id) {
		return nil, false
	}
	col, ok := a.columns[c.id]
	if !ok {
		return nil, false
	}
	return col.(*typedColumn[T]), true
}

// Value is one boxed component instance.
type Value interface {
	ComponentID() ComponentID
	Name() string
	newColumn(capacity int) column
}

type value[T any] struct {
	component ComponentType[T]
	v         T
}

func (v value[T]) ComponentID() ComponentID {
	return v.component.id
}

func (v value[T]) Name() string {
	return v.component.name
}

func (v value[T]) newColumn(capacity int) column {
	return newTypedColumn[T](v.component, capacity)
}
