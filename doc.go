/*
Package depot provides an Entity-Component-System (ECS) data container for games and simulations.

Depot stores entities, the typed components attached to them and world-wide singleton
resources, and answers queries that combine components per entity.

Core Concepts:

  - Entity: A positive integer id. Existence is membership in the World's live set.
  - Component: A typed data value attached to an entity, one per type.
  - Resource: A typed singleton value owned by the World.
  - Query: A list of elements (components, Not, Optional, Derived, QueryEntity,
    QueryBuilder) evaluated against one entity.
  - System: A unit of logic run against a WorldView, in order, by a Dispatcher.

Basic Usage:

	world := depot.Factory.NewWorld()

	// Define and register components
	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	world.RegisterComponent(position, velocity)

	// Create entities
	world.BuildEntity().
		AddComponent(&Position{}).
		AddComponent(&Velocity{X: 1})

	// Query entities and process them
	for result := range world.Find(position, velocity).All() {
		pos := position.From(result, 0)
		vel := velocity.From(result, 1)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Worlds can be captured with Snapshot, encoded as JSON or YAML with EncodeSnapshot, and
loaded back with Restore. The store package persists snapshots in Postgres.

A World is not safe for concurrent use.
*/
package depot
