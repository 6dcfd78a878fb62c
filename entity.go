package depot

import "slices"

// Entity is an opaque positive identifier. It carries no data of its own; an entity
// exists while it is in its World's live set.
type Entity uint32

// liveSet keeps the live entity ids sorted ascending.
type liveSet struct {
	ids []Entity
}

func (s *liveSet) add(e Entity) {
	i, found := slices.BinarySearch(s.ids, e)
	if found {
		return
	}
	s.ids = slices.Insert(s.ids, i, e)
}

func (s *liveSet) remove(e Entity) bool {
	i, found := slices.BinarySearch(s.ids, e)
	if !found {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

func (s *liveSet) has(e Entity) bool {
	_, found := slices.BinarySearch(s.ids, e)
	return found
}

func (s *liveSet) max() Entity {
	if len(s.ids) == 0 {
		return 0
	}
	return s.ids[len(s.ids)-1]
}

// after returns the smallest live id strictly greater than e. Iteration built on it
// observes entities created or destroyed between steps.
func (s *liveSet) after(e Entity) (Entity, bool) {
	i, found := slices.BinarySearch(s.ids, e)
	if found {
		i++
	}
	if i >= len(s.ids) {
		return 0, false
	}
	return s.ids[i], true
}

func (s *liveSet) snapshot() []Entity {
	out := make([]Entity, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *liveSet) clear() {
	s.ids = s.ids[:0]
}

func (s *liveSet) len() int {
	return len(s.ids)
}
