package clarg

import (
	"cmp"
	"maps"
	"slices"
)

// Destination receives the values a binding produces. Each implementation
// holds a handle to caller-owned storage.
type Destination[T any] interface {
	Put(v T)
	Action() Action
}

// Value returns a Destination that overwrites *p with every value.
func Value[T any](p *T) Destination[T] { return valueDest[T]{p} }

// Append returns a Destination that appends every value to *p.
func Append[T any](p *[]T) Destination[T] { return appendDest[T]{p} }

// Insert returns a Destination that adds every value to *s, allocating the
// set on first use.
func Insert[T comparable](s *Set[T]) Destination[T] { return insertDest[T]{s} }

type valueDest[T any] struct{ p *T }

func (d valueDest[T]) Put(v T)        { *d.p = v }
func (d valueDest[T]) Action() Action { return ActionWrite }

type appendDest[T any] struct{ p *[]T }

func (d appendDest[T]) Put(v T)        { *d.p = append(*d.p, v) }
func (d appendDest[T]) Action() Action { return ActionAppend }

type insertDest[T comparable] struct{ s *Set[T] }

func (d insertDest[T]) Put(v T) {
	if *d.s == nil {
		*d.s = make(Set[T])
	}
	d.s.Add(v)
}

func (d insertDest[T]) Action() Action { return ActionInsert }

// Set is an unordered collection of unique values.
type Set[T comparable] map[T]struct{}

// NewSet returns a Set holding values.
func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has reports whether v is in s.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of elements.
func (s Set[T]) Len() int { return len(s) }

// Sorted returns the elements of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}
