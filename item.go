package depot

// Item is a Term that also requests access to one component column.
type Item interface {
	Term
	ComponentID() ComponentID
	Writable() bool
	Optional() bool
}

// Ref requests shared access to a component the archetype must have.
type Ref[T any] struct {
	component ComponentType[T]
}

// Mut requests exclusive access to a component the archetype must have.
type Mut[T any] struct {
	component ComponentType[T]
}

// OptRef requests shared access to a component the archetype may lack.
type OptRef[T any] struct {
	component ComponentType[T]
}

// OptMut requests exclusive access to a component the archetype may lack.
type OptMut[T any] struct {
	component ComponentType[T]
}

func Read[T any](c ComponentType[T]) Ref[T] {
	return Ref[T]{component: c}
}

func Write[T any](c ComponentType[T]) Mut[T] {
	return Mut[T]{component: c}
}

func OptionalRead[T any](c ComponentType[T]) OptRef[T] {
	return OptRef[T]{component: c}
}

func OptionalWrite[T any](c ComponentType[T]) OptMut[T] {
	return OptMut[T]{component: c}
}

func (r Ref[T]) Matches(layout Layout) bool { return layout.Contains(r.component.id) }
func (r Ref[T]) ComponentID() ComponentID { return r.component.id }
func (r Ref[T]) Writable() bool { return false }
func (r Ref[T]) Optional() bool { return false }
func (m Mut[T]) Matches(layout Layout) bool { return layout.Contains(m.component.id) }
func (m Mut[T]) ComponentID() ComponentID { return m.component.id }
func (m Mut[T]) Writable() bool { return true }
func (m Mut[T]) Optional() bool { return false }
func (o OptRef[T]) Matches(Layout) bool { return true }
func (o OptRef[T]) ComponentID() ComponentID { return o.component.id }
func (o OptRef[T]) Writable() bool { return false }
func (o OptRef[T]) Optional() bool { return true }
func (o OptMut[T]) Matches(Layout) bool { return true }
func (o OptMut[T]) ComponentID() ComponentID { return o.component.id }
func (o OptMut[T]) Writable() bool { return true }
func (o OptMut[T]) Optional() bool { return true }

// Get returns a copy of the current row's value.
func (r Ref[T]) Get(q *Query) T {
	col := q.column(r.component.id, r.component.name, false)
	if col == nil {
		panic(ComponentNotInLayoutError{Component: r.component.name, Layout: q.Archetype().layout})
	}
	return col.(*typedColumn[T]).values[q.index]
}

// Get returns a pointer to the current row's value, valid while the query is open.
func (m Mut[T]) Get(q *Query) *T {
	col := q.column(m.component.id, m.component.name, true)
	if col == nil {
		panic(ComponentNotInLayoutError{Component: m.component.name, Layout: q.Archetype().layout})
	}
	return &col.(*typedColumn[T]).values[q.index]
}

// Get returns the current row's value, or false when its archetype has no T.
func (o OptRef[T]) Get(q *Query) (T, bool) {
	var zero T
	col := q.column(o.component.id, o.component.name, false)
	if col == nil {
		return zero, false
	}
	values := col.(*typedColumn[T]).values
	if q.index >= len(values) {
		return zero, false
	}
	return values[q.index], true
}

// Get returns a pointer to the current row's value, or nil when its archetype has no T.
func (o OptMut[T]) Get(q *Query) *T {
	col := q.column(o.component.id, o.component.name, true)
	if col == nil {
		return nil
	}
	values := col.(*typedColumn[T]).values
	if q.index >= len(values) {
		return nil
	}
	return &values[q.index]
}
