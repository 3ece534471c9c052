package ecs

// Tag is a zero-size marker component. Tags are kept as one bitset per slot so
// the hot filters (dead, flocking-disabled, attacking) are a mask test.
type Tag uint32

// TagStore holds the tag bitset of every entity, indexed by slot.
type TagStore struct {
	ids  []EntityID
	bits []Tag
}

func NewTagStore(capacity int) *TagStore {
	return &TagStore{
		ids:  make([]EntityID, 0, capacity),
		bits: make([]Tag, 0, capacity),
	}
}

func (s *TagStore) slot(id EntityID, create bool) int {
	idx := int(id.Index())
	if idx >= len(s.ids) {
		if !create {
			return -1
		}
		for len(s.ids) <= idx {
			s.ids = append(s.ids, 0)
			s.bits = append(s.bits, 0)
		}
	}
	if s.ids[idx] != id {
		if !create {
			return -1
		}
		s.ids[idx] = id
		s.bits[idx] = 0
	}
	return idx
}

// Add sets t on id. Reports whether anything changed.
func (s *TagStore) Add(id EntityID, t Tag) bool {
	i := s.slot(id, true)
	if s.bits[i]&t == t {
		return false
	}
	s.bits[i] |= t
	return true
}

// Clear removes t from id. Reports whether anything changed.
func (s *TagStore) Clear(id EntityID, t Tag) bool {
	i := s.slot(id, false)
	if i < 0 || s.bits[i]&t == 0 {
		return false
	}
	s.bits[i] &^= t
	return true
}

// Has reports whether id carries every bit of t.
func (s *TagStore) Has(id EntityID, t Tag) bool {
	i := s.slot(id, false)
	return i >= 0 && s.bits[i]&t == t
}

// Any reports whether id carries at least one bit of t.
func (s *TagStore) Any(id EntityID, t Tag) bool {
	i := s.slot(id, false)
	return i >= 0 && s.bits[i]&t != 0
}

// Get returns the full bitset of id.
func (s *TagStore) Get(id EntityID) Tag {
	i := s.slot(id, false)
	if i < 0 {
		return 0
	}
	return s.bits[i]
}

func (s *TagStore) Remove(id EntityID) {
	if i := s.slot(id, false); i >= 0 {
		s.ids[i] = 0
		s.bits[i] = 0
	}
}
