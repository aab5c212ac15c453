package depot

import "fmt"

// Entity identifies one object: the archetype holding it and its generational slot
// there. It is a copyable handle, not a container.
type Entity struct {
	Archetype uint16
	Slot      Slot
}

func (e Entity) String() string {
	return fmt.Sprintf("entity(%d:%d@%d)", e.Archetype, e.Slot.Index, e.Slot.Generation)
}
