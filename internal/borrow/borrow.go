// Package borrow implements the non-blocking reader/writer discipline shared by
// component columns and resources.
//
// A Cell admits any number of readers or exactly one writer. Acquisition never
// waits: a contested acquire panics with an *Error, since overlapping access is a
// programming error in the caller's query or system layout.
package borrow

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Error reports a contested borrow.
type Error struct {
	Name  string
	Write bool
}

func (e *Error) Error() string {
	if e.Write {
		return fmt.Sprintf("%s already borrowed: cannot borrow for writing", e.Name)
	}
	return fmt.Sprintf("%s already borrowed for writing: cannot borrow for reading", e.Name)
}

// Cell guards one value.
type Cell struct {
	mu sync.RWMutex
}

// Guard is one outstanding borrow of a Cell.
type Guard struct {
	cell     *Cell
	write    bool
	released atomic.Bool
}

// TryRead acquires a shared borrow or panics.
func (c *Cell) TryRead(name string) *Guard {
	if !c.mu.TryRLock() {
		panic(&Error{Name: name})
	}
	return &Guard{cell: c}
}

// TryWrite acquires the exclusive borrow or panics.
func (c *Cell) TryWrite(name string) *Guard {
	if !c.mu.TryLock() {
		panic(&Error{Name: name, Write: true})
	}
	return &Guard{cell: c, write: true}
}

// Writable reports whether the guard holds the exclusive borrow.
func (g *Guard) Writable() bool {
	return g.write
}

// Released reports whether Release has been called.
func (g *Guard) Released() bool {
	return g.released.Load()
}

// Release gives the borrow back. Calling it more than once is a no-op.
func (g *Guard) Release() {
	if !g.released.CompareAndSwap(false, true) {
		return
	}
	if g.write {
		g.cell.mu.Unlock()
		return
	}
	g.cell.mu.RUnlock()
}
