package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type Health struct {
	Current int
	Max     int
}

// TestComponentStorageSetGet tests storing, overwriting and reading instances
func TestComponentStorageSetGet(t *testing.T) {
	s := FactoryNewComponentStorage[Position]()

	_, ok := s.Get(1)
	assert.False(t, ok)

	first := &Position{X: 1}
	s.Set(1, first)
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Same(t, first, got)

	replacement := &Position{X: 2}
	s.Set(1, replacement)
	got, _ = s.Get(1)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, s.Len())
}

// TestComponentStorageOrder tests that iteration follows insertion order across
// overwrites, deletes and compaction
func TestComponentStorageOrder(t *testing.T) {
	tests := []struct {
		name     string
		build    func(s *ComponentStorage[Health])
		expected []Entity
	}{
		{
			name: "Insertion order",
			build: func(s *ComponentStorage[Health]) {
				s.Set(3, &Health{})
				s.Set(1, &Health{})
				s.Set(2, &Health{})
			},
			expected: []Entity{3, 1, 2},
		},
		{
			name: "Overwrite keeps position",
			build: func(s *ComponentStorage[Health]) {
				s.Set(1, &Health{})
				s.Set(2, &Health{})
				s.Set(1, &Health{Current: 5})
			},
			expected: []Entity{1, 2},
		},
		{
			name: "Delete skips entity",
			build: func(s *ComponentStorage[Health]) {
				s.Set(1, &Health{})
				s.Set(2, &Health{})
				s.Set(3, &Health{})
				s.Delete(2)
			},
			expected: []Entity{1, 3},
		},
		{
			name: "Compaction after many deletes",
			build: func(s *ComponentStorage[Health]) {
				for e := Entity(1); e <= 10; e++ {
					s.Set(e, &Health{})
				}
				for e := Entity(1); e <= 8; e++ {
					s.Delete(e)
				}
				s.Set(4, &Health{})
			},
			expected: []Entity{9, 10, 4},
		},
		{
			name: "Delete unknown is a no-op",
			build: func(s *ComponentStorage[Health]) {
				s.Set(1, &Health{})
				s.Delete(7)
			},
			expected: []Entity{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FactoryNewComponentStorage[Health]()
			tt.build(s)

			var order []Entity
			for e := range s.All() {
				order = append(order, e)
			}
			assert.Equal(t, tt.expected, order)
			assert.Equal(t, len(tt.expected), s.Len())
			for _, e := range tt.expected {
				assert.True(t, s.Has(e), "entity %d", e)
			}
		})
	}
}

// TestComponentStorageClear tests that Clear empties the storage and it stays usable
func TestComponentStorageClear(t *testing.T) {
	s := FactoryNewComponentStorage[Velocity]()
	s.Set(1, &Velocity{X: 1})
	s.Set(2, &Velocity{X: 2})

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has(1))

	s.Set(5, &Velocity{})
	assert.Equal(t, 1, s.Len())
}

// TestComponentStorageTypeErased tests the world-facing view of a storage
func TestComponentStorageTypeErased(t *testing.T) {
	var s componentStorage = newComponentStorage[Position]()

	assert.False(t, s.setAny(1, &Velocity{}), "wrong type must be rejected")
	assert.False(t, s.setAny(1, (*Position)(nil)), "nil pointer must be rejected")
	assert.False(t, s.setAny(1, Position{}), "non-pointer must be rejected")
	assert.True(t, s.setAny(1, &Position{X: 3}))

	v, ok := s.getAny(1)
	require.True(t, ok)
	assert.Equal(t, &Position{X: 3}, v)

	s.delete(1)
	assert.False(t, s.has(1))
}
