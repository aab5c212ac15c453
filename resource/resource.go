// Package resource holds world-wide singletons, one per Go type, borrowed with the
// same non-blocking discipline as component columns.
package resource

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/internal/borrow"
	"github.com/rotisserie/eris"
)

// Resources maps a Go type to its single value.
type Resources struct {
	mu    sync.RWMutex
	items map[reflect.Type]*entry
}

type entry struct {
	cell  borrow.Cell
	value any
	name  string
}

func New() *Resources {
	return &Resources{items: make(map[reflect.Type]*entry)}
}

// Insert stores v, replacing any previous value of T. Replacing a borrowed resource
// panics.
func Insert[T any](r *Resources, v T) {
	typ := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.items[typ]; ok {
		guard := old.cell.TryWrite(old.name)
		defer guard.Release()
		old.value = &v
		return
	}
	r.items[typ] = &entry{value: &v, name: "resource " + typ.String()}
}

// Has reports whether a value of T is stored.
func Has[T any](r *Resources) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[reflect.TypeFor[T]()]
	return ok
}

func lookup[T any](r *Resources) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[reflect.TypeFor[T]()]
	return e, ok
}

// Res is a shared borrow of a resource.
type Res[T any] struct {
	guard *borrow.Guard
	value *T
}

// Get returns a copy of the resource.
func (r *Res[T]) Get() T {
	return *r.value
}

func (r *Res[T]) Close() {
	r.guard.Release()
}

// ResMut is the exclusive borrow of a resource.
type ResMut[T any] struct {
	guard *borrow.Guard
	value *T
}

// Get returns a pointer to the resource, valid until Close.
func (r *ResMut[T]) Get() *T {
	return r.value
}

func (r *ResMut[T]) Close() {
	r.guard.Release()
}

// Read borrows T for reading. It reports false when no T is stored and panics when
// T is borrowed for writing.
func Read[T any](r *Resources) (*Res[T], bool) {
	e, ok := lookup[T](r)
	if !ok {
		return nil, false
	}
	guard := e.cell.TryRead(e.name)
	return &Res[T]{guard: guard, value: e.value.(*T)}, true
}

// Write borrows T exclusively. It reports false when no T is stored and panics
// when T is borrowed at all.
func Write[T any](r *Resources) (*ResMut[T], bool) {
	e, ok := lookup[T](r)
	if !ok {
		return nil, false
	}
	guard := e.cell.TryWrite(e.name)
	return &ResMut[T]{guard: guard, value: e.value.(*T)}, true
}

// Reader provides shared borrows of T. Providing a missing resource panics.
func Reader[T any](r *Resources) depot.Provider[*Res[T]] {
	return depot.ProviderFunc[*Res[T]](func() *Res[T] {
		res, ok := Read[T](r)
		if !ok {
			panic(eris.Errorf("resource %s not found", reflect.TypeFor[T]()))
		}
		return res
	})
}

// Writer provides exclusive borrows of T. Providing a missing resource panics.
func Writer[T any](r *Resources) depot.Provider[*ResMut[T]] {
	return depot.ProviderFunc[*ResMut[T]](func() *ResMut[T] {
		res, ok := Write[T](r)
		if !ok {
			panic(eris.Errorf("resource %s not found", reflect.TypeFor[T]()))
		}
		return res
	})
}
