package depot

import "iter"

// componentStorage is the type-erased view the World holds of every ComponentStorage.
type componentStorage interface {
	has(Entity) bool
	getAny(Entity) (any, bool)
	setAny(Entity, any) bool
	delete(Entity)
	clear()
	len() int
	eachAny(func(Entity, any) bool)
}

var _ componentStorage = &ComponentStorage[struct{}]{}

// ComponentStorage associates entities with instances of a single component type.
// Iteration follows insertion order; overwriting an entity keeps its position.
type ComponentStorage[T any] struct {
	index    map[Entity]int
	entities []Entity
	values   []*T
	holes    int
}

func newComponentStorage[T any]() *ComponentStorage[T] {
	return &ComponentStorage[T]{
		index: make(map[Entity]int),
	}
}

func (s *ComponentStorage[T]) Get(e Entity) (*T, bool) {
	i, ok := s.index[e]
	if !ok {
		return nil, false
	}
	return s.values[i], true
}

func (s *ComponentStorage[T]) Set(e Entity, value *T) {
	if i, ok := s.index[e]; ok {
		s.values[i] = value
		return
	}
	s.index[e] = len(s.entities)
	s.entities = append(s.entities, e)
	s.values = append(s.values, value)
}

// Delete removes the entity's instance. The slot becomes a hole (entity 0) which is
// compacted away once holes outnumber live entries.
func (s *ComponentStorage[T]) Delete(e Entity) {
	i, ok := s.index[e]
	if !ok {
		return
	}
	delete(s.index, e)
	s.entities[i] = 0
	s.values[i] = nil
	s.holes++
	if s.holes > len(s.index) {
		s.compact()
	}
}

func (s *ComponentStorage[T]) Has(e Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *ComponentStorage[T]) Clear() {
	clear(s.index)
	s.entities = s.entities[:0]
	s.values = s.values[:0]
	s.holes = 0
}

func (s *ComponentStorage[T]) Len() int {
	return len(s.index)
}

// All yields every (entity, instance) pair in insertion order.
func (s *ComponentStorage[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := 0; i < len(s.entities); i++ {
			e := s.entities[i]
			if e == 0 {
				continue
			}
			if !yield(e, s.values[i]) {
				return
			}
		}
	}
}

func (s *ComponentStorage[T]) compact() {
	n := 0
	for i, e := range s.entities {
		if e == 0 {
			continue
		}
		s.entities[n] = e
		s.values[n] = s.values[i]
		s.index[e] = n
		n++
	}
	clear(s.values[n:])
	s.entities = s.entities[:n]
	s.values = s.values[:n]
	s.holes = 0
}

func (s *ComponentStorage[T]) has(e Entity) bool { return s.Has(e) }

func (s *ComponentStorage[T]) getAny(e Entity) (any, bool) {
	v, ok := s.Get(e)
	if !ok {
		return nil, false
	}
	return v, true
}

func (s *ComponentStorage[T]) setAny(e Entity, v any) bool {
	typed, ok := v.(*T)
	if !ok || typed == nil {
		return false
	}
	s.Set(e, typed)
	return true
}

func (s *ComponentStorage[T]) delete(e Entity) { s.Delete(e) }

func (s *ComponentStorage[T]) clear() { s.Clear() }

func (s *ComponentStorage[T]) len() int { return s.Len() }

func (s *ComponentStorage[T]) eachAny(fn func(Entity, any) bool) {
	for e, v := range s.All() {
		if !fn(e, v) {
			return
		}
	}
}
