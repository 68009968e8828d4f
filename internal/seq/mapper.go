package seq

// Mapper transforms the value at idx.
type Mapper[T, U any] func(cur T, idx int, s *Sequence[T]) U

// TryMapper is a Mapper that can fail.
type TryMapper[T, U any] func(cur T, idx int, s *Sequence[T]) (U, error)

// Map returns a new sequence of the same length where every present slot i
// holds fn(s[i], i, s). Holes stay holes and fn is never called for them.
//
// Returns NotCallable if fn is nil.
func Map[T, U any](s *Sequence[T], fn Mapper[T, U]) (*Sequence[U], error) {
	if fn == nil {
		return nil, NotCallable(fn)
	}
	return mapSeq[T, U](s, func(cur T, idx int, s *Sequence[T]) (U, error) {
		return fn(cur, idx, s), nil
	})
}

// TryMap is Map with a fallible callback. A callback error is returned as a
// *CallbackError and no partial result is returned.
func TryMap[T, U any](s *Sequence[T], fn TryMapper[T, U]) (*Sequence[U], error) {
	if fn == nil {
		return nil, NotCallable(fn)
	}
	return mapSeq(s, fn)
}

func mapSeq[T, U any](s *Sequence[T], fn TryMapper[T, U]) (*Sequence[U], error) {
	n := s.Len()
	out := Sparse[U](n)
	for i := 0; i < n; i++ {
		cur, ok := s.At(i)
		if !ok {
			continue
		}
		v, err := fn(cur, i, s)
		if err != nil {
			return nil, &CallbackError{Index: i, Err: err}
		}
		out.Set(i, v)
	}
	return out, nil
}
