package normalize

// OrderedSet is a set that remembers insertion order.
type OrderedSet[T comparable] struct {
	seen  map[T]struct{}
	items []T
}

func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{seen: make(map[T]struct{})}
}

// Add inserts v and reports whether it was new.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *OrderedSet[T]) Len() int { return len(s.items) }

// Items returns the members in insertion order. The slice is a copy.
func (s *OrderedSet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
