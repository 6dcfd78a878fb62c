package depot

import (
	"github.com/TheBitDrifter/mask"
)

// MaxComponentTypes bounds the component types a World can register; each type owns
// one bit of an entity signature.
const MaxComponentTypes = int(mask.MaxBits)

// signatures tracks, per entity, a bitmask of the component types it holds. Bits are
// handed out per world in registration order. Find uses them to reject entities
// before running the full query.
type signatures struct {
	next  uint32
	masks map[Entity]mask.Mask
}

func newSignatures() signatures {
	return signatures{
		masks: make(map[Entity]mask.Mask),
	}
}

// register assigns the next free bit. It fails once every bit is taken.
func (s *signatures) register() (uint32, bool) {
	if int(s.next) >= MaxComponentTypes {
		return 0, false
	}
	bit := s.next
	s.next++
	return bit, true
}

// release returns bit when it was the last one handed out.
func (s *signatures) release(bit uint32) {
	if bit+1 == s.next {
		s.next--
	}
}

func (s *signatures) mark(e Entity, bit uint32) {
	m := s.masks[e]
	m.Mark(bit)
	s.masks[e] = m
}

func (s *signatures) unmark(e Entity, bit uint32) {
	m, ok := s.masks[e]
	if !ok {
		return
	}
	m.Unmark(bit)
	s.masks[e] = m
}

func (s *signatures) drop(e Entity) {
	delete(s.masks, e)
}

func (s *signatures) reset() {
	clear(s.masks)
}

// signatureFilter is the structural part of a query: components an entity must hold
// and components it must not hold.
type signatureFilter struct {
	required    mask.Mask
	excluded    mask.Mask
	hasRequired bool
	hasExcluded bool
}

func (f signatureFilter) accepts(m mask.Mask) bool {
	if f.hasRequired && !m.ContainsAll(f.required) {
		return false
	}
	if f.hasExcluded && m.ContainsAny(f.excluded) {
		return false
	}
	return true
}

func (s *signatures) accepts(e Entity, f signatureFilter) bool {
	if !f.hasRequired && !f.hasExcluded {
		return true
	}
	return f.accepts(s.masks[e])
}
