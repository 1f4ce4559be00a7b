/*
Package pyecs provides an archetype-based Entity-Component-System (ECS) runtime.

Entities sharing the same exact component-type set are grouped into archetypes
and stored in columnar tables, keeping component data dense and queries cheap.
Each component slot is stamped with the tick it was last written, so systems
can ask for "entities whose Position changed since the last cycle". A
double-buffered event bus delivers events with a deterministic one-cycle delay,
and an observer registry covers synchronous same-cycle signaling.

Core Concepts:

  - Entity: A generational identifier that represents one logical object.
  - Component: A data container that defines entity attributes.
  - Archetype: A columnar table for all entities sharing one component set.
  - Query: A way to find entities by component shape and change state.
  - Tick: A counter advanced once per scheduling cycle, stamped on writes.

Basic Usage:

	// Create storage with schema
	schema := pyecs.Factory.NewSchema()
	storage := pyecs.Factory.NewStorage(schema)

	// Define components
	position := pyecs.FactoryNewComponent[Position]()
	velocity := pyecs.FactoryNewComponent[Velocity]()

	// Create entities
	entities, _ := storage.NewEntities(100, position, velocity)

	// Query entities and process them
	query := pyecs.Factory.NewQuery()
	queryNode := query.And(position, velocity)
	cursor := pyecs.Factory.NewCursor(queryNode, storage)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

The World type bundles storage with the event bus and resource store, and the
Schedule runs systems in order, advancing the tick and swapping event buffers
once per cycle. There are no package-level singletons; every system receives
the World it operates on.
*/
package pyecs
