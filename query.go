package depot

import (
	"iter"

	"github.com/TheBitDrifter/depot/internal/borrow"
)

type queryState int

const (
	queryResolving queryState = iota
	queryIterating
	queryExhausted
)

// Query iterates the rows of every archetype matching its terms. Building it borrows
// one column guard per item per matching archetype; the guards of an archetype are
// released once its rows are exhausted, and Close releases whatever is left.
//
// Within an archetype rows are visited by ascending index. The order archetypes are
// visited in is not significant.
type Query struct {
	world   *World
	terms   []Term
	items   []Item
	matched []resolvedArchetype

	state   queryState
	current int
	index   int
}

type resolvedArchetype struct {
	archetype *Archetype
	columns   []column // aligned with Query.items; nil when absent
	guards    []*borrow.Guard
	size      int
}

// NewQuery resolves a query over the world's current archetypes.
func NewQuery(w *World, terms ...Term) *Query {
	q := &Query{
		world: w,
		terms: terms,
		index: -1,
	}
	for _, term := range terms {
		if item, ok := term.(Item); ok {
			q.items = append(q.items, item)
		}
	}
	q.resolve()
	return q
}

func (q *Query) matches(layout Layout) bool {
	for _, term := range q.terms {
		if !term.Matches(layout) {
			return false
		}
	}
	return true
}

func (q *Query) resolve() {
	q.world.mu.RLock()
	defer q.world.mu.RUnlock()

	defer func() {
		// A contested borrow must not leak the guards taken before it
		if r := recover(); r != nil {
			q.release()
			q.state = queryExhausted
			panic(r)
		}
	}()

	for _, arch := range q.world.archetypes.items {
		if !q.matches(arch.layout) {
			continue
		}
		q.matched = append(q.matched, resolvedArchetype{
			archetype: arch,
			columns:   make([]column, len(q.items)),
			guards:    make([]*borrow.Guard, len(q.items)),
		})
		res := &q.matched[len(q.matched)-1]

		resolvedAny := false
		for i, item := range q.items {
			col, ok := arch.columns[item.ComponentID()]
			if !ok {
				continue
			}
			if item.Writable() {
				res.guards[i] = col.borrowCell().TryWrite(col.label())
			} else {
				res.guards[i] = col.borrowCell().TryRead(col.label())
			}
			res.columns[i] = col
			resolvedAny = true
			// The longest column governs the row count
			res.size = max(res.size, col.size())
		}
		if !resolvedAny {
			res.size = arch.Len()
		}
	}

	q.world.logger.Trace().
		Int("terms", len(q.terms)).
		Int("archetypes", len(q.matched)).
		Msg("resolved query")
	q.state = queryIterating
}

// Next advances to the next row and reports whether there is one. Once it returns
// false the query is exhausted and holds no guards.
func (q *Query) Next() bool {
	if q.state != queryIterating {
		return false
	}
	for q.current < len(q.matched) {
		res := &q.matched[q.current]
		if q.index+1 < res.size {
			q.index++
			return true
		}
		res.release()
		q.current++
		q.index = -1
	}
	q.state = queryExhausted
	return false
}

// Entities yields the row index and archetype of every remaining row. Breaking out
// of the loop closes the query.
func (q *Query) Entities() iter.Seq2[int, *Archetype] {
	return func(yield func(int, *Archetype) bool) {
		for q.Next() {
			if !yield(q.index, q.matched[q.current].archetype) {
				q.Close()
				return
			}
		}
	}
}

// Close releases every guard still held. It is safe to call more than once.
func (q *Query) Close() {
	q.release()
	q.state = queryExhausted
}

func (q *Query) release() {
	for i := range q.matched {
		q.matched[i].release()
	}
}

func (r *resolvedArchetype) release() {
	for _, g := range r.guards {
		if g != nil {
			g.Release()
		}
	}
}

// Index returns the current row within the current archetype.
func (q *Query) Index() int {
	return q.index
}

// Archetype returns the archetype of the current row.
func (q *Query) Archetype() *Archetype {
	q.mustHaveRow()
	return q.matched[q.current].archetype
}

// Entity returns the handle of the current row.
func (q *Query) Entity() Entity {
	arch := q.Archetype()
	return Entity{Archetype: arch.id, Slot: arch.slots[q.index]}
}

// Matched returns the number of rows across all matched archetypes.
func (q *Query) Matched() int {
	total := 0
	for _, res := range q.matched {
		total += res.size
	}
	return total
}

// MatchedArchetypes returns the number of archetypes the query resolved.
func (q *Query) MatchedArchetypes() int {
	return len(q.matched)
}

func (q *Query) mustHaveRow() {
	switch {
	case q.state == queryExhausted:
		panic(QueryStateError{State: "exhausted"})
	case q.index < 0:
		panic(QueryStateError{State: "Next not called"})
	}
}

// column returns the current archetype's column for an item the query requested,
// nil when that archetype lacks it.
func (q *Query) column(id ComponentID, name string, write bool) column {
	q.mustHaveRow()
	res := &q.matched[q.current]
	for i, item := range q.items {
		if item.ComponentID() != id || (write && !item.Writable()) {
			continue
		}
		return res.columns[i]
	}
	panic(ComponentNotRequestedError{Component: name, Write: write})
}
