package depot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

// U128 stands in for a 128-bit unsigned integer component.
type U128 struct {
	Hi, Lo uint64
}

var (
	u32Comp    = FactoryNewComponent[uint32]()
	u64Comp    = FactoryNewComponent[uint64]()
	u128Comp   = FactoryNewComponent[U128]()
	posComp    = FactoryNewComponent[Position]()
	velComp    = FactoryNewComponent[Velocity]()
	healthComp = FactoryNewComponent[Health]()
)

func newTestWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	w, err := NewWorld(opts...)
	require.NoError(t, err)
	return w
}

// newNumbersWorld builds one entity in each of {u32,u64,u128}, {u32,u64} and {u32}.
func newNumbersWorld(t *testing.T) *World {
	t.Helper()
	w := newTestWorld(t)
	w.Insert(NewPrototype().
		With(u32Comp.Value(1)).
		With(u64Comp.Value(2)).
		With(u128Comp.Value(U128{Lo: 3})))
	w.Insert(NewPrototype().
		With(u32Comp.Value(10)).
		With(u64Comp.Value(20)))
	w.Insert(NewPrototype().
		With(u32Comp.Value(100)))
	return w
}

// requirePanicsAs runs fn and returns the error it panicked with, failing the test
// unless the panic value is, or wraps, an E.
func requirePanicsAs[E error](t *testing.T, fn func()) E {
	t.Helper()
	var target E
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			err, ok := r.(error)
			require.Truef(t, ok, "panic value %v is not an error", r)
			require.Truef(t, errors.As(err, &target), "panic %v is not a %T", err, target)
		}()
		fn()
	}()
	return target
}
