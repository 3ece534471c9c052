package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a dense, slot-indexed component table. Values live in a contiguous
// slice so parallel workers can address them by slot without locking; the
// owner of a slot is the only writer of that slot during a phase.
type Store[T any] struct {
	ids  []EntityID
	data []T
	n    int
}

func NewStore[T any](capacity int) *Store[T] {
	return &Store[T]{
		ids:  make([]EntityID, 0, capacity),
		data: make([]T, 0, capacity),
	}
}

func (s *Store[T]) grow(idx int) {
	for len(s.ids) <= idx {
		var zero T
		s.ids = append(s.ids, 0)
		s.data = append(s.data, zero)
	}
}

// Set stores c for id, replacing any value left by an older generation.
func (s *Store[T]) Set(id EntityID, c T) *T {
	idx := int(id.Index())
	s.grow(idx)
	if s.ids[idx] == 0 {
		s.n++
	}
	s.ids[idx] = id
	s.data[idx] = c
	return &s.data[idx]
}

// Get returns the component for id. Stale generations miss.
func (s *Store[T]) Get(id EntityID) (*T, bool) {
	idx := int(id.Index())
	if idx >= len(s.ids) || s.ids[idx] != id || id == 0 {
		return nil, false
	}
	return &s.data[idx], true
}

// At returns the component in slot i and the entity that owns it.
func (s *Store[T]) At(i int) (EntityID, *T, bool) {
	if i < 0 || i >= len(s.ids) || s.ids[i] == 0 {
		return 0, nil, false
	}
	return s.ids[i], &s.data[i], true
}

func (s *Store[T]) Remove(id EntityID) {
	idx := int(id.Index())
	if idx >= len(s.ids) || s.ids[idx] != id {
		return
	}
	var zero T
	s.ids[idx] = 0
	s.data[idx] = zero
	s.n--
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.Get(id)
	return ok
}

// Len is the number of stored components.
func (s *Store[T]) Len() int { return s.n }

// Cap is the slot range a parallel sweep must cover.
func (s *Store[T]) Cap() int { return len(s.ids) }

// Each visits components in slot order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i, id := range s.ids {
		if id != 0 {
			fn(id, &s.data[i])
		}
	}
}
