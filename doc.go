/*
Package depot provides archetype-based entity/component storage with a typed query layer.

Entities sharing the exact same set of component types live in one archetype, where every
component type has its own densely packed column. Queries resolve, across all matching
archetypes, one borrow per requested column and then walk the rows index by index.

Core Concepts:

  - Entity: A copyable handle made of an archetype id and a generational slot.
  - Component: A plain value type attached to an entity.
  - Prototype: The components of an entity that does not exist yet.
  - Archetype: Storage for all entities sharing one layout.
  - Query: A lazy, predicate-filtered iterator over component columns.

Borrows never wait. A column is either read by any number of queries or written by
exactly one; a conflicting borrow panics, since it means two systems were laid out to
touch the same data.

Layouts are bit masks, so a process can register at most mask.MaxBits component types:
64 by default, or 256, 512 or 1024 when built with the m256, m512 or m1024 tag. Registering
one more panics with a ComponentLimitError.

Basic Usage:

	world := depot.Factory.NewWorld()

	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()

	world.Insert(depot.Factory.NewPrototype().
		With(position.Value(Position{})).
		With(velocity.Value(Velocity{X: 1})))

	pos := depot.Write(position)
	vel := depot.Read(velocity)
	query := world.Query(pos, vel)
	defer query.Close()

	for query.Next() {
		p := pos.Get(query)
		v := vel.Get(query)
		p.X += v.X
		p.Y += v.Y
	}
*/
package depot
