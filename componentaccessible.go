package depot

// AccessibleComponent is the typed handle of a component type T. Instances of T are
// stored as *T. Configure names and hooks before registering the type with a World.
type AccessibleComponent[T any] struct {
	def *componentInfo
}

var _ Component = AccessibleComponent[struct{}]{}

// Kind reports ElementComponent.
func (c AccessibleComponent[T]) Kind() ElementKind {
	return ElementComponent
}

func (c AccessibleComponent[T]) Name() string {
	return c.def.name
}

func (c AccessibleComponent[T]) info() *componentInfo {
	return c.def
}

// WithName overrides the stable name used in snapshots.
//
// Builder methods return a handle over a new definition; a World keeps the definition
// it was registered with. Configure a type before registering it.
func (c AccessibleComponent[T]) WithName(name string) AccessibleComponent[T] {
	c.def = c.def.clone()
	c.def.name = name
	return c
}

// SkipSerialization excludes this component type from snapshots entirely.
func (c AccessibleComponent[T]) SkipSerialization() AccessibleComponent[T] {
	c.def = c.def.clone()
	c.def.skip = true
	return c
}

// WithDehydrate sets the function converting an instance into its snapshot form.
// Returning false omits the instance from the snapshot.
func (c AccessibleComponent[T]) WithDehydrate(fn func(component *T, purpose any) (any, bool)) AccessibleComponent[T] {
	c.def = c.def.clone()
	c.def.dehydrate = func(v any, purpose any) (any, bool) {
		return fn(v.(*T), purpose)
	}
	return c
}

// WithRehydrate sets the function rebuilding an instance from snapshot data.
// Returning false leaves the component off the entity.
func (c AccessibleComponent[T]) WithRehydrate(fn func(data any, component AccessibleComponent[T]) (*T, bool)) AccessibleComponent[T] {
	c.def = c.def.clone()
	c.def.rehydrate = func(data any) (any, bool, error) {
		v, ok := fn(data, c)
		if !ok || v == nil {
			return nil, false, nil
		}
		return v, true, nil
	}
	return c
}

// Get retrieves the entity's instance.
func (c AccessibleComponent[T]) Get(w WorldView, e Entity) (*T, bool, error) {
	v, ok, err := w.GetComponent(e, c)
	if err != nil || !ok {
		return nil, false, err
	}
	return v.(*T), true, nil
}

// Require retrieves the entity's instance, failing with MissingComponentError.
func (c AccessibleComponent[T]) Require(w WorldView, e Entity) (*T, error) {
	v, err := w.RequireComponent(e, c)
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (c AccessibleComponent[T]) Add(w WorldView, e Entity, value *T) error {
	return w.AddComponent(e, value)
}

func (c AccessibleComponent[T]) Remove(w WorldView, e Entity) error {
	return w.RemoveComponent(e, c)
}

// From reads element i of a query result as *T. Absent optional values yield nil.
func (c AccessibleComponent[T]) From(r Result, i int) *T {
	v, _ := r[i].(*T)
	return v
}
