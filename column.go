package depot

import (
	"iter"

	"github.com/TheBitDrifter/depot/internal/borrow"
)

// column is the type-erased view of one component type's values in an archetype.
type column interface {
	ComponentID() ComponentID
	push(v Value)
	appendValue(v Value)
	size() int
	borrowCell() *borrow.Cell
	label() string
}

type typedColumn[T any] struct {
	component ComponentType[T]
	cell      borrow.Cell
	values    []T
	name      string
}

func newTypedColumn[T any](component ComponentType[T], capacity int) *typedColumn[T] {
	return &typedColumn[T]{
		component: component,
		values:    make([]T, 0, capacity),
		name:      "column " + component.name,
	}
}

func (c *typedColumn[T]) ComponentID() ComponentID {
	return c.component.id
}

// push appends one value under a write borrow.
func (c *typedColumn[T]) push(v Value) {
	guard := c.cell.TryWrite(c.name)
	defer guard.Release()
	c.appendValue(v)
}

// appendValue appends without borrowing; the caller holds the write guard.
func (c *typedColumn[T]) appendValue(v Value) {
	typed, ok := v.(value[T])
	if !ok || typed.component.id != c.component.id {
		panic(ComponentTypeMismatchError{Column: c.component.name, Value: v.Name()})
	}
	c.values = append(c.values, typed.v)
}

// size is read without borrowing. Callers either hold a guard on the column or the
// world's structural lock.
func (c *typedColumn[T]) size() int {
	return len(c.values)
}

func (c *typedColumn[T]) borrowCell() *borrow.Cell {
	return &c.cell
}

func (c *typedColumn[T]) label() string {
	return c.name
}

// ColumnReader is a shared borrow of one column.
type ColumnReader[T any] struct {
	guard  *borrow.Guard
	values []T
}

// Len returns the number of values in the column.
func (r *ColumnReader[T]) Len() int {
	return len(r.values)
}

// At returns a copy of the value at index i.
func (r *ColumnReader[T]) At(i int) T {
	return r.values[i]
}

// All yields every value with its row index.
func (r *ColumnReader[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range r.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Release ends the borrow.
func (r *ColumnReader[T]) Release() {
	r.guard.Release()
}

// ColumnWriter is the exclusive borrow of one column.
type ColumnWriter[T any] struct {
	guard  *borrow.Guard
	values []T
}

func (w *ColumnWriter[T]) Len() int {
	return len(w.values)
}

// At returns a pointer to the value at index i, valid until Release.
func (w *ColumnWriter[T]) At(i int) *T {
	return &w.values[i]
}

// Values exposes the backing slice, valid until Release.
func (w *ColumnWriter[T]) Values() []T {
	return w.values
}

func (w *ColumnWriter[T]) Release() {
	w.guard.Release()
}
