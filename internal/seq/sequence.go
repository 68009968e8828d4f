package seq

import (
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Sequence is an ordered collection of slots 0..Len()-1 where each slot is
// either present or a hole.
//
// Values live in a dense slice; presence is tracked in a bitset so that a
// present zero value never collides with a hole.
type Sequence[T any] struct {
	values  []T
	present *bitset.BitSet
}

// Of creates a dense sequence holding vals.
func Of[T any](vals ...T) *Sequence[T] {
	return FromSlice(vals)
}

// FromSlice creates a dense sequence from a copy of vals.
func FromSlice[T any](vals []T) *Sequence[T] {
	s := Sparse[T](len(vals))
	copy(s.values, vals)
	for i := range vals {
		s.present.Set(uint(i))
	}
	return s
}

// Sparse creates a sequence of the given length where every slot is a hole.
// Panics if length is negative.
func Sparse[T any](length int) *Sequence[T] {
	if length < 0 {
		panic(fmt.Sprintf("seq: negative length %d", length))
	}
	return &Sequence[T]{
		values:  make([]T, length),
		present: bitset.New(uint(length)),
	}
}

// FromMap creates a sequence of the given length whose present slots are the
// keys of m. Every other index is a hole.
func FromMap[T any](length int, m map[int]T) (*Sequence[T], error) {
	if length < 0 {
		return nil, fmt.Errorf("seq: negative length %d", length)
	}
	s := Sparse[T](length)
	for i, v := range m {
		if i < 0 || i >= length {
			return nil, fmt.Errorf("seq: index %d out of range [0,%d)", i, length)
		}
		s.Set(i, v)
	}
	return s, nil
}

// Len returns the number of slots, holes included.
// A nil sequence has length 0.
func (s *Sequence[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Has reports whether slot i exists and holds a value.
func (s *Sequence[T]) Has(i int) bool {
	if i < 0 || i >= s.Len() || s.present == nil {
		return false
	}
	return s.present.Test(uint(i))
}

// At returns the value at slot i and whether the slot is present.
func (s *Sequence[T]) At(i int) (T, bool) {
	if !s.Has(i) {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// Set stores v at slot i, making it present. Panics if i is out of range.
func (s *Sequence[T]) Set(i int, v T) {
	s.checkIndex(i)
	if s.present == nil {
		s.present = bitset.New(uint(len(s.values)))
	}
	s.values[i] = v
	s.present.Set(uint(i))
}

// Delete turns slot i into a hole. Panics if i is out of range.
func (s *Sequence[T]) Delete(i int) {
	s.checkIndex(i)
	var zero T
	s.values[i] = zero
	if s.present != nil {
		s.present.Clear(uint(i))
	}
}

// Count returns the number of present slots.
func (s *Sequence[T]) Count() int {
	if s.Len() == 0 || s.present == nil {
		return 0
	}
	return int(s.present.Count())
}

// Compact returns the present values in index order.
func (s *Sequence[T]) Compact() []T {
	out := make([]T, 0, s.Count())
	for _, v := range s.All() {
		out = append(out, v)
	}
	return out
}

// Clone returns an independent copy. Values are copied shallowly.
func (s *Sequence[T]) Clone() *Sequence[T] {
	c := Sparse[T](s.Len())
	if s.Len() == 0 {
		return c
	}
	copy(c.values, s.values)
	if s.present != nil {
		c.present = s.present.Clone()
	}
	return c
}

// Slice returns a copy of the slots from index from to the end, holes
// included. Out-of-range bounds are clamped.
func (s *Sequence[T]) Slice(from int) *Sequence[T] {
	n := s.Len()
	from = max(0, min(from, n))
	out := Sparse[T](n - from)
	for i := from; i < n; i++ {
		if v, ok := s.At(i); ok {
			out.Set(i-from, v)
		}
	}
	return out
}

// All iterates the present slots in ascending index order. Presence is
// re-checked at every index, so changes made during iteration are observed.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := s.Len()
		for i := 0; i < n; i++ {
			v, ok := s.At(i)
			if !ok {
				continue
			}
			if !yield(i, v) {
				return
			}
		}
	}
}

// Holes returns the indices of absent slots in ascending order.
func (s *Sequence[T]) Holes() []int {
	var holes []int
	for i := 0; i < s.Len(); i++ {
		if !s.Has(i) {
			holes = append(holes, i)
		}
	}
	return holes
}

// String joins the slots with "," the way Array.prototype.toString does.
// Holes render as empty strings.
func (s *Sequence[T]) String() string {
	parts := make([]string, s.Len())
	for i := range parts {
		if v, ok := s.At(i); ok {
			parts[i] = describeElem(reflect.ValueOf(&v).Elem())
		}
	}
	return strings.Join(parts, ",")
}

func (s *Sequence[T]) checkIndex(i int) {
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("seq: index %d out of range [0,%d)", i, s.Len()))
	}
}
