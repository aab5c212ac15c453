package depot

import (
	"testing"

	"github.com/TheBitDrifter/depot/internal/borrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMatchesRequiredItems(t *testing.T) {
	w := newNumbersWorld(t)

	a := Read(u32Comp)
	b := Write(u64Comp)
	q := w.Query(a, b)
	defer q.Close()

	type row struct {
		archetype uint16
		a         uint32
		b         uint64
	}
	var rows []row
	for q.Next() {
		rows = append(rows, row{q.Archetype().ID(), a.Get(q), *b.Get(q)})
	}

	assert.ElementsMatch(t, []row{{0, 1, 2}, {1, 10, 20}}, rows)
	assert.Equal(t, 2, q.MatchedArchetypes())
}

func TestQueryOptionalItems(t *testing.T) {
	w := newNumbersWorld(t)

	a := Read(u32Comp)
	c := OptionalRead(u128Comp)
	q := w.Query(a, c)
	defer q.Close()

	got := make(map[uint32]*U128)
	for q.Next() {
		if v, ok := c.Get(q); ok {
			got[a.Get(q)] = &v
		} else {
			got[a.Get(q)] = nil
		}
	}

	require.Len(t, got, 3)
	assert.Equal(t, &U128{Lo: 3}, got[1])
	assert.Nil(t, got[10])
	assert.Nil(t, got[100])
}

func TestQueryOptionalOnly(t *testing.T) {
	w := newNumbersWorld(t)

	c := OptionalRead(u128Comp)
	q := w.Query(c)
	defer q.Close()

	rows, present := 0, 0
	for q.Next() {
		rows++
		if _, ok := c.Get(q); ok {
			present++
		}
	}
	assert.Equal(t, 3, rows, "archetypes without the column still yield their rows")
	assert.Equal(t, 1, present)
}

func TestQueryOptionalWrite(t *testing.T) {
	w := newNumbersWorld(t)

	c := OptionalWrite(u128Comp)
	q := w.Query(c)
	for q.Next() {
		if v := c.Get(q); v != nil {
			v.Hi = 7
		}
	}

	v, ok := u128Comp.Lookup(w, Entity{Archetype: 0})
	require.True(t, ok)
	assert.Equal(t, U128{Hi: 7, Lo: 3}, v)
}

func TestQueryWritesAreVisible(t *testing.T) {
	w := newNumbersWorld(t)

	b := Write(u64Comp)
	q := w.Query(b)
	for q.Next() {
		*b.Get(q) *= 3
	}

	for id, want := range map[uint16]uint64{0: 6, 1: 60} {
		v, ok := u64Comp.Lookup(w, Entity{Archetype: id})
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestQueryBorrowRules(t *testing.T) {
	tests := []struct {
		name     string
		terms    func() []Term
		conflict bool
	}{
		{"Write and read of one type", func() []Term { return []Term{Write(u32Comp), Read(u32Comp)} }, true},
		{"Two writes of one type", func() []Term { return []Term{Write(u32Comp), Write(u32Comp)} }, true},
		{"Read and optional write of one type", func() []Term { return []Term{Read(u32Comp), OptionalWrite(u32Comp)} }, true},
		{"Two reads of one type", func() []Term { return []Term{Read(u32Comp), Read(u32Comp)} }, false},
		{"Writes of disjoint types", func() []Term { return []Term{Write(u32Comp), Write(u64Comp)} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newNumbersWorld(t)

			if tt.conflict {
				requirePanicsAs[*borrow.Error](t, func() { w.Query(tt.terms()...) })
			} else {
				q := w.Query(tt.terms()...)
				assert.Positive(t, q.Matched())
				q.Close()
			}

			// Guards taken before a conflict are released too
			q := w.Query(Write(u32Comp), Write(u64Comp), Write(u128Comp))
			q.Close()
		})
	}
}

func TestQueriesHoldBorrowsUntilExhausted(t *testing.T) {
	w := newNumbersWorld(t)

	a := Read(u32Comp)
	reader := w.Query(a)

	requirePanicsAs[*borrow.Error](t, func() { w.Query(Write(u32Comp)) })

	other := w.Query(Read(u32Comp))
	other.Close()

	for reader.Next() {
		_ = a.Get(reader)
	}

	writer := w.Query(Write(u32Comp))
	writer.Close()
	writer.Close()
}

func TestQueryReleasesArchetypesAsItGoes(t *testing.T) {
	w := newNumbersWorld(t)

	q := w.Query(Read(u32Comp))
	defer q.Close()
	require.True(t, q.Next())
	require.Equal(t, uint16(0), q.Archetype().ID())

	arch0, ok := w.Archetype(0)
	require.True(t, ok)
	arch2, ok := w.Archetype(2)
	require.True(t, ok)

	requirePanicsAs[*borrow.Error](t, func() { u32Comp.WriteColumn(arch0) })
	requirePanicsAs[*borrow.Error](t, func() { u32Comp.WriteColumn(arch2) })

	require.True(t, q.Next())
	require.Equal(t, uint16(1), q.Archetype().ID())

	wr, ok := u32Comp.WriteColumn(arch0)
	require.True(t, ok, "exhausted archetype is released")
	wr.Release()
	requirePanicsAs[*borrow.Error](t, func() { u32Comp.WriteColumn(arch2) })
}

func TestQueryBlocksConflictingInsert(t *testing.T) {
	w := newNumbersWorld(t)
	arch2, ok := w.Archetype(2)
	require.True(t, ok)

	q := w.Query(Read(u32Comp))
	requirePanicsAs[*borrow.Error](t, func() {
		w.Insert(NewPrototype().With(u32Comp.Value(5)))
	})
	assert.Equal(t, 1, arch2.Len(), "failed insert leaves the archetype unchanged")
	n, _ := arch2.ColumnLen(u32Comp.ComponentID())
	assert.Equal(t, 1, n)
	q.Close()

	e := w.Insert(NewPrototype().With(u32Comp.Value(5)))
	assert.Equal(t, uint16(2), e.Archetype)
	assert.Equal(t, 1, e.Slot.Index)
}

func TestQueryEntitiesBreakCloses(t *testing.T) {
	w := newNumbersWorld(t)
	q := w.Query(Write(u32Comp))

	visited := 0
	for range q.Entities() {
		visited++
		break
	}
	assert.Equal(t, 1, visited)
	assert.False(t, q.Next())

	after := w.Query(Write(u32Comp))
	after.Close()
}

func TestQueryEntity(t *testing.T) {
	w := newTestWorld(t)
	var inserted []Entity
	for i := 0; i < 3; i++ {
		inserted = append(inserted, w.Insert(NewPrototype().With(posComp.Value(Position{X: float64(i)}))))
	}

	q := w.Query(Read(posComp))
	var seen []Entity
	for i, arch := range q.Entities() {
		assert.Equal(t, i, q.Index())
		assert.Equal(t, uint16(0), arch.ID())
		seen = append(seen, q.Entity())
	}
	assert.Equal(t, inserted, seen)
}

func TestQueryRoundTrip(t *testing.T) {
	w := newTestWorld(t)
	w.Insert(Add(Add(NewPrototype(), uint32(1)), uint64(2)))

	a := Read(FactoryNewComponent[uint32]())
	b := Read(FactoryNewComponent[uint64]())
	q := w.Query(a, b)

	var got [][2]uint64
	for q.Next() {
		got = append(got, [2]uint64{uint64(a.Get(q)), b.Get(q)})
	}
	assert.Equal(t, [][2]uint64{{1, 2}}, got)
}

func TestQueryIsRepeatable(t *testing.T) {
	w := newNumbersWorld(t)

	collect := func() []uint32 {
		a := Read(u32Comp)
		q := w.Query(a)
		var out []uint32
		for q.Next() {
			out = append(out, a.Get(q))
		}
		return out
	}

	first := collect()
	assert.ElementsMatch(t, []uint32{1, 10, 100}, first)
	assert.Equal(t, first, collect())
}

func TestQueryPredicates(t *testing.T) {
	w := newNumbersWorld(t)

	tests := []struct {
		name  string
		terms []Term
		want  []uint32
	}{
		{"With", []Term{With(u128Comp)}, []uint32{1}},
		{"Without", []Term{Without(u64Comp)}, []uint32{100}},
		{"With and without", []Term{With(u64Comp), Without(u128Comp)}, []uint32{10}},
		{"Without nothing", []Term{Without()}, []uint32{1, 10, 100}},
		{"Filter tree", []Term{Factory.NewFilter().Or(u128Comp, Factory.NewFilter().Not(u64Comp))}, []uint32{1, 100}},
		{"Empty filter", []Term{Factory.NewFilter()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Read(u32Comp)
			q := w.Query(append([]Term{a}, tt.terms...)...)
			var got []uint32
			for q.Next() {
				got = append(got, a.Get(q))
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestQueryMisuse(t *testing.T) {
	w := newNumbersWorld(t)
	a := Read(u32Comp)

	t.Run("Get before Next", func(t *testing.T) {
		q := w.Query(a)
		defer q.Close()
		requirePanicsAs[QueryStateError](t, func() { a.Get(q) })
	})

	t.Run("Get after exhaustion", func(t *testing.T) {
		q := w.Query(a)
		for q.Next() {
		}
		requirePanicsAs[QueryStateError](t, func() { a.Get(q) })
	})

	t.Run("Component not requested", func(t *testing.T) {
		q := w.Query(a)
		defer q.Close()
		require.True(t, q.Next())
		err := requirePanicsAs[ComponentNotRequestedError](t, func() { Read(u64Comp).Get(q) })
		assert.False(t, err.Write)
	})

	t.Run("Write through a read item", func(t *testing.T) {
		q := w.Query(a)
		defer q.Close()
		require.True(t, q.Next())
		err := requirePanicsAs[ComponentNotRequestedError](t, func() { Write(u32Comp).Get(q) })
		assert.True(t, err.Write)
	})
}

func TestQueryProvider(t *testing.T) {
	w := newNumbersWorld(t)
	a := Read(u32Comp)
	var provider Provider[*Query] = w.Provides(a, Without(u128Comp))

	for range 2 {
		q := provider.Provide()
		rows := 0
		for q.Next() {
			rows++
		}
		assert.Equal(t, 2, rows)
	}

	w.Insert(NewPrototype().With(u32Comp.Value(1000)).With(posComp.Value(Position{})))
	q := provider.Provide()
	defer q.Close()
	assert.Equal(t, 3, q.MatchedArchetypes(), "each Provide resolves against the current archetypes")
}
