package entities

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of ids
type Set[T cmp.Ordered] map[T]struct{}

// NewSet creates a set holding the given ids
func NewSet[T cmp.Ordered](ids ...T) Set[T] {
	s := make(Set[T], len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an id. Adding to a nil set is a no-op.
func (s Set[T]) Add(id T) {
	if s != nil {
		s[id] = struct{}{}
	}
}

// Remove deletes an id
func (s Set[T]) Remove(id T) {
	delete(s, id)
}

// Contains reports membership
func (s Set[T]) Contains(id T) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids
func (s Set[T]) Len() int {
	return len(s)
}

// Intersects reports whether any of ids is in the set
func (s Set[T]) Intersects(ids []T) bool {
	for _, id := range ids {
		if s.Contains(id) {
			return true
		}
	}
	return false
}

// Sorted returns the ids in ascending order
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy
func (s Set[T]) Clone() Set[T] {
	c := make(Set[T], len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}
