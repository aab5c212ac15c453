package depot

import "github.com/rotisserie/eris"

type factory struct{}

var Factory factory

// NewWorld builds a world and panics when the options produce an invalid config.
func (f factory) NewWorld(opts ...Option) *World {
	w, err := NewWorld(opts...)
	if err != nil {
		panic(eris.Wrap(err, "invalid world options"))
	}
	return w
}

func (f factory) NewPrototype() *Prototype {
	return newPrototype()
}

func (f factory) NewFilter() Filter {
	return newFilter()
}

func (f factory) NewQuery(w *World, terms ...Term) *Query {
	return NewQuery(w, terms...)
}

// FactoryNewComponent returns the handle of T. Every call for the same T yields an
// interchangeable handle.
func FactoryNewComponent[T any]() ComponentType[T] {
	return componentTypeOf[T]()
}
