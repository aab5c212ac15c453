package depot

type operation struct {
	typ    operationType
	layout Layout
	values []Value
}

type operationType int

const (
	opInsert operationType = iota
)

type opQueue struct {
	insertOps []operation
}

func (q *opQueue) enqueueInsert(layout Layout, values []Value) {
	q.insertOps = append(q.insertOps, operation{
		typ:    opInsert,
		layout: layout,
		values: values,
	})
}

func (q *opQueue) Len() int {
	return len(q.insertOps)
}

// processOperationQueue runs with the world's structural lock held. Each insert
// leaves the queue as it is applied, so a flush that panics part way keeps only
// the operations not yet applied.
func (w *World) processOperationQueue() {
	if w.opQueue.Len() == 0 {
		return
	}
	w.logger.Debug().Int("inserts", w.opQueue.Len()).Msg("flushing queued operations")

	for w.opQueue.Len() > 0 {
		op := w.opQueue.insertOps[0]
		switch op.typ {
		case opInsert:
			w.insert(op.layout, op.values)
		}
		w.opQueue.insertOps[0] = operation{}
		w.opQueue.insertOps = w.opQueue.insertOps[1:]
	}
	w.opQueue.insertOps = nil
}
