package depot

// Prototype accumulates the components of one entity that does not exist yet. It is
// consumed by the insert that creates the entity and cannot be inserted again.
type Prototype struct {
	values   map[ComponentID]Value
	consumed bool
}

func newPrototype() *Prototype {
	return &Prototype{values: make(map[ComponentID]Value)}
}

// NewPrototype returns an empty prototype.
func NewPrototype() *Prototype {
	return newPrototype()
}

// With attaches a boxed component. A later value of the same type replaces the
// earlier one.
func (p *Prototype) With(v Value) *Prototype {
	if p.consumed {
		panic(PrototypeConsumedError{})
	}
	p.values[v.ComponentID()] = v
	return p
}

// Add attaches v keyed by its Go type, registering the type on first use.
func Add[T any](p *Prototype, v T) *Prototype {
	return p.With(componentTypeOf[T]().Value(v))
}

// Layout returns the set of component types currently held.
func (p *Prototype) Layout() Layout {
	var l Layout
	for id := range p.values {
		l = l.with(id)
	}
	return l
}

// Len returns the number of component types held.
func (p *Prototype) Len() int {
	return len(p.values)
}

// Consumed reports whether the prototype has been handed to an insert.
func (p *Prototype) Consumed() bool {
	return p.consumed
}

// take hands the values over in ascending component order and marks p consumed.
func (p *Prototype) take() (Layout, []Value) {
	if p.consumed {
		panic(PrototypeConsumedError{})
	}
	layout := p.Layout()
	values := make([]Value, 0, len(p.values))
	for _, id := range layout.ids {
		values = append(values, p.values[id])
	}
	p.consumed = true
	p.values = nil
	return layout, values
}
