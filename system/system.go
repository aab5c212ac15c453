// Package system runs functions against the values a depot.Provider hands out.
//
// A system declares what it needs through providers: queries from a world,
// resources from a container. Executors run batches of systems either one after
// another or all at once, converting the panics raised by contested borrows into
// errors.
package system

import (
	"fmt"

	"github.com/TheBitDrifter/depot"
)

// System is one unit of work an executor can run.
type System interface {
	Run()
}

// Func adapts a plain function to System.
type Func func()

func (f Func) Run() {
	f()
}

type closer interface {
	Close()
}

// release closes provided values that hold borrows, such as queries.
func release(v any) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

// Of builds a system from one provider. The provided value is closed when fn
// returns, if it can be.
func Of[T any](p depot.Provider[T], fn func(T)) System {
	return Func(func() {
		v := p.Provide()
		defer release(v)
		fn(v)
	})
}

func Of2[A, B any](pa depot.Provider[A], pb depot.Provider[B], fn func(A, B)) System {
	return Func(func() {
		a := pa.Provide()
		defer release(a)
		b := pb.Provide()
		defer release(b)
		fn(a, b)
	})
}

func Of3[A, B, C any](pa depot.Provider[A], pb depot.Provider[B], pc depot.Provider[C], fn func(A, B, C)) System {
	return Func(func() {
		a := pa.Provide()
		defer release(a)
		b := pb.Provide()
		defer release(b)
		c := pc.Provide()
		defer release(c)
		fn(a, b, c)
	})
}

// PanicError carries the value a system panicked with. System is -1 when the
// panic came from unlocking the executor's locker after the run.
type PanicError struct {
	System int
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("system %d panicked: %v", e.System, e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func runSystem(index int, s System) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{System: index, Value: r}
		}
	}()
	s.Run()
	return nil
}
