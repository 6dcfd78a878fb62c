package depot

import "iter"

// WorldView is the capability surface handed to systems. Systems depend on it rather
// than on *World so they can run against wrapped views (tracing, tests).
type WorldView interface {
	Entities() []Entity
	CreateEntity() Entity
	BuildEntity() *EntityBuilder
	DestroyEntity(Entity)

	With(entities []Entity) *QueryResults
	Find(query ...QueryElement) *QueryResults
	Query(e Entity, query ...QueryElement) (Result, bool, error)

	GetComponent(e Entity, c Component) (any, bool, error)
	RequireComponent(e Entity, c Component) (any, error)
	AddComponent(e Entity, component any) error
	RemoveComponent(e Entity, c Component) error
	ClearComponent(c Component) error

	SetResource(resource any) error
	GetResource(r Resource) (any, bool)
	RequireResource(r Resource) (any, error)
	RemoveResource(r Resource)
}

// System is a unit of logic run against a world view.
type System interface {
	Run(w WorldView) error
}

type iCursor interface {
	Next() bool
	Entity() Entity
	Result() Result
	Err() error
}

type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	Register(string, T) (int, error)
	Items() iter.Seq2[string, T]
}

// Cursor walks a QueryResults one entity at a time. A walk holds a paused iterator
// until Next returns false; call Reset when stopping early to release it.
type Cursor struct {
	results *QueryResults

	next func() (Entity, Result, bool)
	stop func()

	entity  Entity
	current Result
	visited int

	initialized bool
}

// SimpleCache is a capacity-bounded, string-keyed index of items.
type SimpleCache[T any] struct {
	keys        []string
	items       []T
	itemIndices map[string]int
	maxCapacity int
}
