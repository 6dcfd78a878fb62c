package depot_test

import (
	"fmt"
	"os"

	"github.com/TheBitDrifter/depot"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value string
}

// Example shows basic depot usage with entity creation and queries
func Example_basic() {
	world := depot.Factory.NewWorld()

	// Define components
	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	name := depot.FactoryNewComponent[Name]()
	world.RegisterComponent(position, velocity, name)

	// Create entities
	for range 5 {
		world.BuildEntity().AddComponent(&Position{})
	}
	for range 3 {
		world.BuildEntity().AddComponent(&Position{}).AddComponent(&Velocity{})
	}

	// Create one named entity
	world.BuildEntity().
		AddComponent(&Position{X: 10, Y: 20}).
		AddComponent(&Velocity{X: 1, Y: 2}).
		AddComponent(&Name{Value: "Player"})

	// Count matching entities
	matchCount, _ := world.Find(position, velocity).Count()
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	// Process the named entity
	cursor := depot.Factory.NewCursor(world.Find(position, velocity, name))
	for cursor.Next() {
		pos := position.From(cursor.Result(), 0)
		vel := velocity.From(cursor.Result(), 1)
		nme := name.From(cursor.Result(), 2)

		pos.X += vel.X
		pos.Y += vel.Y

		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", nme.Value, pos.X, pos.Y)
	}

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}

// Example_queries shows how to combine query elements
func Example_queries() {
	world := depot.Factory.NewWorld()

	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()
	name := depot.FactoryNewComponent[Name]()
	world.RegisterComponent(position, velocity, name)

	for i := range 12 {
		b := world.BuildEntity().AddComponent(&Position{X: float64(i)})
		if i%4 == 1 || i%4 == 3 {
			b.AddComponent(&Velocity{})
		}
		if i%4 >= 2 {
			b.AddComponent(&Name{Value: fmt.Sprint("e", i)})
		}
	}

	and, _ := world.Find(position, velocity).Count()
	fmt.Printf("AND query matched %d entities\n", and)

	not, _ := world.Find(position, depot.Not(velocity)).Count()
	fmt.Printf("NOT query matched %d entities\n", not)

	optional, _ := world.Find(depot.Optional(name)).Filter(func(r depot.Result) bool {
		return r[0] == nil
	}).Count()
	fmt.Printf("OPTIONAL query left %d entities unnamed\n", optional)

	speed := depot.Derived(position)(func(r depot.Result, _ depot.WorldView) (any, bool) {
		p := position.From(r, 0)
		return p.X, p.X > 9
	})
	for r := range world.Find(depot.QueryEntity, speed).All() {
		fmt.Printf("entity %d derived %.0f\n", r.Entity(0), r[1])
	}

	// Output:
	// AND query matched 6 entities
	// NOT query matched 6 entities
	// OPTIONAL query left 6 entities unnamed
	// entity 11 derived 10
	// entity 12 derived 11
}

// Example_snapshot shows capturing a world and encoding it
func Example_snapshot() {
	world := depot.Factory.NewWorld()
	position := depot.FactoryNewComponent[Position]().WithName("pos")
	world.RegisterComponent(position)
	world.BuildEntity().AddComponent(&Position{X: 1, Y: 2})

	snap, _ := world.Snapshot()
	depot.EncodeSnapshot(os.Stdout, snap, depot.FormatYAML)

	// Output:
	// resources: {}
	// entities:
	//   1:
	//     pos:
	//       X: 1
	//       "Y": 2
}

// Example_dispatcher shows systems deferring structural changes through Commands
func Example_dispatcher() {
	world := depot.Factory.NewWorld()
	name := depot.FactoryNewComponent[Name]()
	world.RegisterComponent(name)
	world.BuildEntity().AddComponent(&Name{Value: "spawner"})
	depot.CommandsResource.Set(world, depot.Factory.NewCommands())

	dispatcher := depot.Factory.NewDispatcher().
		AddSystemFunc("spawn", func(w depot.WorldView) error {
			cmds, err := depot.CommandsResource.Require(w)
			if err != nil {
				return err
			}
			for r := range w.Find(name).All() {
				cmds.Spawn(&Name{Value: name.From(r, 0).Value + "-child"})
			}
			return nil
		}).
		AddSystemFunc("report", func(w depot.WorldView) error {
			for r := range w.Find(depot.QueryEntity, name).All() {
				fmt.Println(r.Entity(0), name.From(r, 1).Value)
			}
			return nil
		})

	dispatcher.Run(world)

	// Output:
	// 1 spawner
	// 2 spawner-child
}
