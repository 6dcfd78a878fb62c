package depot

import "reflect"

// Component is a registered component type. It doubles as the query element that
// retrieves an entity's instance of that type.
type Component interface {
	QueryElement
	// Name is the stable name used as the snapshot key.
	Name() string
	info() *componentInfo
}

// componentInfo is the type-erased definition the World registers. Hooks are stored
// as closures so the World never reflects over user types to find them.
type componentInfo struct {
	name       string
	typ        reflect.Type
	skip       bool
	newStorage func() componentStorage
	dehydrate  func(v any, purpose any) (any, bool)
	rehydrate  func(data any) (any, bool, error)
}

func newComponentInfo[T any]() *componentInfo {
	return &componentInfo{
		name:       typeName(reflect.TypeFor[T]()),
		typ:        reflect.TypeFor[*T](),
		newStorage: func() componentStorage { return newComponentStorage[T]() },
		dehydrate:  func(v any, _ any) (any, bool) { return v, true },
		rehydrate:  func(data any) (any, bool, error) { return decodeInto[T](data) },
	}
}

func (c *componentInfo) clone() *componentInfo {
	dup := *c
	return &dup
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
