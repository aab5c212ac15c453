package depot

import (
	"iter"
	"math"
	"sync"

	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// World owns every archetype and routes new entities to the archetype matching
// their layout.
//
// The world's own lock only protects its structure (the archetype sequence and the
// entity tables). Component data follows the column borrow discipline: inserting
// into a column that a live query borrows panics instead of waiting.
type World struct {
	mu         sync.RWMutex
	config     Config
	logger     *zerolog.Logger
	archetypes archetypeTable
	locked     bool
	opQueue    opQueue
}

// NewWorld builds a world from the default config and the options.
func NewWorld(opts ...Option) (*World, error) {
	w := &World{config: DefaultConfig()}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.config.Validate(); err != nil {
		return nil, eris.Wrap(err, "failed to create world")
	}
	level, _ := zerolog.ParseLevel(w.config.LogLevel)
	logger := log.Logger
	if w.logger != nil {
		logger = *w.logger
	}
	logger = logger.Level(level).With().Str("component", "depot").Logger()
	w.logger = &logger
	w.archetypes = newArchetypeTable(w.config.MaxArchetypes)
	return w, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.config
}

// Insert consumes the prototype and creates its entity, creating the archetype for
// its layout when none exists.
func (w *World) Insert(p *Prototype) Entity {
	if p.consumed {
		panic(PrototypeConsumedError{})
	}
	layout, values := p.take()

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.insert(layout, values)
}

func (w *World) insert(layout Layout, values []Value) Entity {
	arch, found := w.archetypes.Find(func(a *Archetype) bool {
		return a.layout.Equal(layout)
	})
	if !found {
		created, err := w.archetypes.Register(layout, w.config.ColumnCapacity)
		if err != nil {
			panic(eris.Wrapf(err, "failed to create archetype for layout %v", layout))
		}
		arch = created
		w.logger.Debug().
			Uint16("archetype", arch.id).
			Stringer("layout", layout).
			Msg("created archetype")
	}
	slot := arch.insertValues(layout, values)
	return Entity{Archetype: arch.id, Slot: slot}
}

// Entities yields every live entity, archetype by archetype. Each archetype's slots
// are snapshotted when the sequence reaches it.
func (w *World) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := 0; ; i++ {
			if i > math.MaxUint16 {
				panic(ArchetypeLimitError{Limit: MaxArchetypes})
			}
			slots, ok := w.liveSlots(i)
			if !ok {
				return
			}
			for _, slot := range slots {
				if !yield(Entity{Archetype: uint16(i), Slot: slot}) {
					return
				}
			}
		}
	}
}

// EntitySlice collects Entities.
func (w *World) EntitySlice() []Entity {
	return iter_util.Collect(w.Entities())
}

func (w *World) liveSlots(i int) ([]Slot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i >= w.archetypes.Len() {
		return nil, false
	}
	return iter_util.Collect(w.archetypes.items[i].Entities()), true
}

// Archetypes returns a snapshot of the archetype sequence in id order.
func (w *World) Archetypes() []*Archetype {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Archetype, len(w.archetypes.items))
	copy(out, w.archetypes.items)
	return out
}

// Archetype returns the archetype with the given id.
func (w *World) Archetype(id uint16) (*Archetype, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.archetypes.Get(id)
}

// FindArchetype returns the first archetype, in id order, satisfying the predicate.
func (w *World) FindArchetype(predicate func(*Archetype) bool) (*Archetype, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.archetypes.Find(predicate)
}

// IsAlive reports whether the entity handle still refers to a live entity.
func (w *World) IsAlive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	arch, ok := w.archetypes.Get(e.Archetype)
	return ok && arch.IsAlive(e.Slot)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, arch := range w.archetypes.items {
		n += arch.Len()
	}
	return n
}

// Query resolves a query over the world's current archetypes.
func (w *World) Query(terms ...Term) *Query {
	return NewQuery(w, terms...)
}

// Locked reports whether inserts are currently being queued.
func (w *World) Locked() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.locked
}

// Lock makes EnqueueInsert queue prototypes instead of inserting them.
func (w *World) Lock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.locked = true
}

// Unlock applies every queued insert, in order. If an insert panics, the world
// stays locked with the remaining inserts queued, and a later Unlock resumes there.
func (w *World) Unlock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.processOperationQueue()
	w.locked = false
}

// EnqueueInsert inserts the prototype now, or queues it while the world is locked.
// The prototype is consumed either way.
func (w *World) EnqueueInsert(p *Prototype) {
	if p.consumed {
		panic(PrototypeConsumedError{})
	}
	layout, values := p.take()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.locked {
		w.insert(layout, values)
		return
	}
	w.opQueue.enqueueInsert(layout, values)
}
