package depot

// ElementKind tags the variants of QueryElement.
type ElementKind uint8

const (
	ElementComponent ElementKind = iota
	ElementEntity
	ElementEntityBuilder
	ElementNot
	ElementOptional
	ElementDerived
)

func (k ElementKind) String() string {
	switch k {
	case ElementComponent:
		return "COMPONENT"
	case ElementEntity:
		return "ENTITY"
	case ElementEntityBuilder:
		return "ENTITY_BUILDER"
	case ElementNot:
		return "NOT"
	case ElementOptional:
		return "OPTIONAL"
	case ElementDerived:
		return "DERIVED"
	}
	return "UNKNOWN"
}

// QueryElement is one unit of a query. Queries are plain data: they hold no world
// reference and can be reused across entities and worlds.
type QueryElement interface {
	Kind() ElementKind
}

type marker ElementKind

func (m marker) Kind() ElementKind { return ElementKind(m) }

var (
	// QueryEntity contributes the entity id to the result.
	QueryEntity QueryElement = marker(ElementEntity)
	// QueryBuilder contributes an *EntityBuilder bound to the entity.
	QueryBuilder QueryElement = marker(ElementEntityBuilder)
)

// Combiner turns the result of a derived sub-query into a single value. Returning
// false fails the enclosing query.
type Combiner func(r Result, w WorldView) (any, bool)

type notNode struct {
	inner QueryElement
}

func (notNode) Kind() ElementKind { return ElementNot }

type optionalNode struct {
	inner QueryElement
}

func (optionalNode) Kind() ElementKind { return ElementOptional }

type derivedNode struct {
	query    []QueryElement
	combiner Combiner
}

func (derivedNode) Kind() ElementKind { return ElementDerived }

// Not matches entities for which inner fails. It contributes no value.
func Not(inner QueryElement) QueryElement {
	return notNode{inner: inner}
}

// Optional always succeeds, contributing inner's value or nil.
func Optional(inner QueryElement) QueryElement {
	return optionalNode{inner: inner}
}

// Derived packages a sub-query and a combiner into a reusable element. The element
// fails when the sub-query fails or the combiner declines.
//
//	BoundingBox := depot.Derived(position, size)(func(r depot.Result, _ depot.WorldView) (any, bool) {
//		p, s := position.From(r, 0), size.From(r, 1)
//		return Box{p.X, p.Y, p.X + s.W, p.Y + s.H}, true
//	})
func Derived(query ...QueryElement) func(Combiner) QueryElement {
	return func(combiner Combiner) QueryElement {
		return derivedNode{query: query, combiner: combiner}
	}
}

// Result is the ordered tuple produced by a successful query.
type Result []any

// Entity reads element i as an entity id.
func (r Result) Entity(i int) Entity {
	e, _ := r[i].(Entity)
	return e
}

// Builder reads element i as an entity builder.
func (r Result) Builder(i int) *EntityBuilder {
	b, _ := r[i].(*EntityBuilder)
	return b
}

// Value reads element i as T. The boolean is false when the element is absent or of
// another type.
func Value[T any](r Result, i int) (T, bool) {
	if i < 0 || i >= len(r) {
		var zero T
		return zero, false
	}
	v, ok := r[i].(T)
	return v, ok
}
