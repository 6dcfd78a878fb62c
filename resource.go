package depot

import "reflect"

// Resource is a registered singleton type, not bound to any entity.
type Resource interface {
	Name() string
	info() *resourceInfo
}

type resourceInfo struct {
	name      string
	typ       reflect.Type
	implicit  bool
	dehydrate func(v any, purpose any) (any, bool)
	rehydrate func(data any) (any, bool, error)
}

func (r *resourceInfo) clone() *resourceInfo {
	dup := *r
	return &dup
}

// implicitResourceInfo describes a resource type first seen through SetResource.
// It is never serialized.
func implicitResourceInfo(typ reflect.Type) *resourceInfo {
	return &resourceInfo{
		name:     typeName(typ.Elem()),
		typ:      typ,
		implicit: true,
		rehydrate: func(data any) (any, bool, error) {
			v := reflect.New(typ.Elem())
			if err := decodeValue(data, v.Interface()); err != nil {
				return nil, false, err
			}
			return v.Interface(), true, nil
		},
	}
}

// AccessibleResource is the typed handle of a resource type T, stored as *T.
// Resources are only snapshotted when they declare a dehydrate hook, either through
// Serializable or WithDehydrate.
type AccessibleResource[T any] struct {
	def *resourceInfo
}

var _ Resource = AccessibleResource[struct{}]{}

func (r AccessibleResource[T]) Name() string {
	return r.def.name
}

func (r AccessibleResource[T]) info() *resourceInfo {
	return r.def
}

// WithName overrides the stable name used in snapshots. Like the other builder
// methods it returns a handle over a new definition, so configure a resource before
// registering it.
func (r AccessibleResource[T]) WithName(name string) AccessibleResource[T] {
	r.def = r.def.clone()
	r.def.name = name
	return r
}

// Serializable opts the resource into snapshots with an identity dehydrate.
func (r AccessibleResource[T]) Serializable() AccessibleResource[T] {
	r.def = r.def.clone()
	r.def.dehydrate = func(v any, _ any) (any, bool) { return v, true }
	return r
}

func (r AccessibleResource[T]) WithDehydrate(fn func(resource *T, purpose any) (any, bool)) AccessibleResource[T] {
	r.def = r.def.clone()
	r.def.dehydrate = func(v any, purpose any) (any, bool) {
		return fn(v.(*T), purpose)
	}
	return r
}

func (r AccessibleResource[T]) WithRehydrate(fn func(data any, resource AccessibleResource[T]) (*T, bool)) AccessibleResource[T] {
	r.def = r.def.clone()
	r.def.rehydrate = func(data any) (any, bool, error) {
		v, ok := fn(data, r)
		if !ok || v == nil {
			return nil, false, nil
		}
		return v, true, nil
	}
	return r
}

func (r AccessibleResource[T]) Get(w WorldView) (*T, bool) {
	v, ok := w.GetResource(r)
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

func (r AccessibleResource[T]) Require(w WorldView) (*T, error) {
	v, err := w.RequireResource(r)
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (r AccessibleResource[T]) Set(w WorldView, value *T) error {
	return w.SetResource(value)
}

func (r AccessibleResource[T]) Remove(w WorldView) {
	w.RemoveResource(r)
}
