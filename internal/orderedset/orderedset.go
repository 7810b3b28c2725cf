// Package orderedset provides an insertion-ordered set with O(1) add,
// remove and move-to-back.
package orderedset

import (
	"container/list"
	"iter"
)

// Set is an insertion-ordered set. The zero value is not usable; call New.
// Set is not safe for concurrent use.
type Set[T comparable] struct {
	order *list.List
	index map[T]*list.Element
}

// New creates an empty Set.
func New[T comparable]() *Set[T] {
	return &Set[T]{
		order: list.New(),
		index: make(map[T]*list.Element),
	}
}

// Add appends v if it is not already present. It reports whether v was added.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = s.order.PushBack(v)
	return true
}

// Remove deletes v. It reports whether v was present.
func (s *Set[T]) Remove(v T) bool {
	e, ok := s.index[v]
	if !ok {
		return false
	}
	s.order.Remove(e)
	delete(s.index, v)
	return true
}

// MoveToBack makes v the newest member, adding it if absent.
func (s *Set[T]) MoveToBack(v T) {
	if e, ok := s.index[v]; ok {
		s.order.MoveToBack(e)
		return
	}
	s.index[v] = s.order.PushBack(v)
}

// Contains reports whether v is a member.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of members.
func (s *Set[T]) Len() int {
	return len(s.index)
}

// All iterates the members oldest first. The set must not be modified
// during iteration; use Values for a stable copy.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := s.order.Front(); e != nil; e = e.Next() {
			if !yield(e.Value.(T)) {
				return
			}
		}
	}
}

// Values returns a copy of the members oldest first.
func (s *Set[T]) Values() []T {
	out := make([]T, 0, s.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}
