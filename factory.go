package depot

import "reflect"

type factory struct{}

// Factory constructs the non-generic depot types.
var Factory factory

func (f factory) NewWorld() *World {
	return newWorld()
}

func (f factory) NewDispatcher() *Dispatcher {
	return newDispatcher()
}

func (f factory) NewCursor(results *QueryResults) *Cursor {
	return newCursor(results)
}

func (f factory) NewCommands() *Commands {
	return newCommands()
}

func (f factory) NewTracer(name string) *Tracer {
	return NewTracer(name)
}

// FactoryNewComponent defines a component type T, named after T unless renamed with
// WithName. Each call yields an independent definition.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{def: newComponentInfo[T]()}
}

// FactoryNewResource defines a resource type T. Resources are left out of snapshots
// unless made Serializable or given a dehydrate hook.
func FactoryNewResource[T any]() AccessibleResource[T] {
	return AccessibleResource[T]{def: &resourceInfo{
		name:      typeName(reflect.TypeFor[T]()),
		typ:       reflect.TypeFor[*T](),
		rehydrate: func(data any) (any, bool, error) { return decodeInto[T](data) },
	}}
}

func FactoryNewComponentStorage[T any]() *ComponentStorage[T] {
	return newComponentStorage[T]()
}

func FactoryNewCache[T any](cap int) Cache[T] {
	return newSimpleCache[T](cap)
}

func newSimpleCache[T any](cap int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
