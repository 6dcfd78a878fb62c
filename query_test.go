package depot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type A struct {
	Val float64 `json:"val"`
}

type B struct{}

type queryFixture struct {
	world *World
	a     AccessibleComponent[A]
	b     AccessibleComponent[B]
	e1    Entity
	e2    Entity
}

// newQueryFixture builds entity 1 with A{5} and B{}, and entity 2 with B{} only.
func newQueryFixture(t *testing.T) queryFixture {
	t.Helper()
	f := queryFixture{
		world: Factory.NewWorld(),
		a:     FactoryNewComponent[A](),
		b:     FactoryNewComponent[B](),
	}
	require.NoError(t, f.world.RegisterComponent(f.a, f.b))

	f.e1 = f.world.BuildEntity().AddComponent(&A{Val: 5}).AddComponent(&B{}).Entity()
	f.e2 = f.world.BuildEntity().AddComponent(&B{}).Entity()
	require.Equal(t, Entity(1), f.e1)
	require.Equal(t, Entity(2), f.e2)
	return f
}

// TestQueryElements tests single-entity evaluation of each element kind
func TestQueryElements(t *testing.T) {
	f := newQueryFixture(t)
	double := Derived(f.a)(func(r Result, _ WorldView) (any, bool) {
		return f.a.From(r, 0).Val * 2, true
	})
	declined := Derived(f.b)(func(Result, WorldView) (any, bool) {
		return nil, false
	})

	tests := []struct {
		name     string
		entity   Entity
		query    []QueryElement
		expected Result
		ok       bool
	}{
		{"Empty query", 2, nil, Result{}, true},
		{"Entity marker", 2, []QueryElement{QueryEntity}, Result{Entity(2)}, true},
		{"Present component", 1, []QueryElement{f.a}, Result{&A{Val: 5}}, true},
		{"Absent component", 2, []QueryElement{f.a}, nil, false},
		{"Not absent", 2, []QueryElement{QueryEntity, Not(f.a)}, Result{Entity(2)}, true},
		{"Not present", 1, []QueryElement{Not(f.a)}, nil, false},
		{"Optional present", 1, []QueryElement{Optional(f.a)}, Result{&A{Val: 5}}, true},
		{"Optional absent", 2, []QueryElement{Optional(f.a)}, Result{nil}, true},
		{"Optional of not", 1, []QueryElement{Optional(Not(f.b))}, Result{nil}, true},
		{"Derived", 1, []QueryElement{double}, Result{10.0}, true},
		{"Derived sub-query fails", 2, []QueryElement{double}, nil, false},
		{"Derived combiner declines", 1, []QueryElement{declined}, nil, false},
		{"Nested", 2, []QueryElement{Not(Derived(Not(f.a))(func(Result, WorldView) (any, bool) { return nil, false }))}, Result{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok, err := f.world.Query(tt.entity, tt.query...)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestQueryShortCircuit tests that evaluation stops at the first failing element
func TestQueryShortCircuit(t *testing.T) {
	f := newQueryFixture(t)
	called := false
	spy := Derived()(func(Result, WorldView) (any, bool) {
		called = true
		return nil, true
	})

	_, ok, err := f.world.Query(f.e2, f.a, spy)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called, "elements after a failure must not be evaluated")

	_, ok, err = f.world.Query(f.e1, f.a, spy)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, called)
}

// TestQueryUnregistered tests that unregistered types are errors, not failed matches
func TestQueryUnregistered(t *testing.T) {
	f := newQueryFixture(t)
	velocity := FactoryNewComponent[Velocity]()

	queries := map[string][]QueryElement{
		"Top level": {velocity},
		"Not":       {Not(velocity)},
		"Optional":  {Optional(velocity)},
		"Derived":   {Derived(velocity)(func(Result, WorldView) (any, bool) { return nil, true })},
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			_, _, err := f.world.Query(f.e1, q...)
			var unknown UnknownComponentError
			require.True(t, errors.As(err, &unknown), "got %v", err)
			assert.Equal(t, "Velocity", unknown.Name)

			_, err = f.world.Find(q...).Count()
			assert.True(t, errors.As(err, &unknown))
		})
	}

	_, _, err := f.world.Query(f.e1, nil)
	var invalid InvalidQueryElementError
	assert.True(t, errors.As(err, &invalid))
}

// TestQueryUnregisteredAfterFailure tests that Query stops before an unregistered type
// that follows a failing element, while Find rejects it up front
func TestQueryUnregisteredAfterFailure(t *testing.T) {
	f := newQueryFixture(t)
	velocity := FactoryNewComponent[Velocity]()

	tests := []struct {
		name  string
		query []QueryElement
	}{
		{"Top level", []QueryElement{f.a, velocity}},
		{"Nested", []QueryElement{f.a, Optional(Not(velocity))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := f.world.Query(f.e2, tt.query...)
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = f.world.Find(tt.query...).Count()
			var unknown UnknownComponentError
			require.True(t, errors.As(err, &unknown), "got %v", err)
			assert.Equal(t, "Velocity", unknown.Name)
		})
	}
}

// TestQueryBuilderElement tests that the builder marker binds to the queried entity
func TestQueryBuilderElement(t *testing.T) {
	f := newQueryFixture(t)
	result, ok, err := f.world.Query(f.e2, QueryBuilder)
	require.NoError(t, err)
	require.True(t, ok)

	b := result.Builder(0)
	require.NotNil(t, b)
	assert.Equal(t, f.e2, b.Entity())

	b.AddComponent(&A{Val: 1})
	require.NoError(t, b.Err())
	a, ok, _ := f.a.Get(f.world, f.e2)
	require.True(t, ok)
	assert.Equal(t, 1.0, a.Val)
}

// TestFindScenarios tests bulk queries over the two-entity fixture
func TestFindScenarios(t *testing.T) {
	f := newQueryFixture(t)

	tests := []struct {
		name     string
		query    []QueryElement
		expected []Result
	}{
		{"Entity and A", []QueryElement{QueryEntity, f.a}, []Result{{Entity(1), &A{Val: 5}}}},
		{"Entity not A", []QueryElement{QueryEntity, Not(f.a)}, []Result{{Entity(2)}}},
		{"B optional A", []QueryElement{QueryEntity, f.b, Optional(f.a)}, []Result{
			{Entity(1), &B{}, &A{Val: 5}},
			{Entity(2), &B{}, nil},
		}},
		{"Nothing matches", []QueryElement{f.a, Not(f.b)}, []Result{}},
		{"Empty query matches everything", nil, []Result{{}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := f.world.Find(tt.query...).Collect()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, results)
		})
	}
}

// TestValue tests typed reads from a result
func TestValue(t *testing.T) {
	r := Result{Entity(3), "name", nil}

	e, ok := Value[Entity](r, 0)
	assert.True(t, ok)
	assert.Equal(t, Entity(3), e)
	assert.Equal(t, Entity(3), r.Entity(0))

	_, ok = Value[int](r, 1)
	assert.False(t, ok)
	_, ok = Value[string](r, 2)
	assert.False(t, ok)
	_, ok = Value[string](r, 5)
	assert.False(t, ok)
	assert.Nil(t, r.Builder(1))
}

// TestElementKindString tests the kind labels used in traces
func TestElementKindString(t *testing.T) {
	assert.Equal(t, "COMPONENT", ElementComponent.String())
	assert.Equal(t, "NOT", Not(nil).Kind().String())
	assert.Equal(t, "OPTIONAL", Optional(nil).Kind().String())
	assert.Equal(t, "ENTITY", QueryEntity.Kind().String())
	assert.Equal(t, "ENTITY_BUILDER", QueryBuilder.Kind().String())
	assert.Equal(t, "UNKNOWN", ElementKind(99).String())
}
