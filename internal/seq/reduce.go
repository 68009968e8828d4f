package seq

// Reducer combines the running accumulator with the value at idx.
type Reducer[A, T any] func(acc A, cur T, idx int, s *Sequence[T]) A

// TryReducer is a Reducer that can fail. A returned error stops the fold.
type TryReducer[A, T any] func(acc A, cur T, idx int, s *Sequence[T]) (A, error)

// Reduce folds s from the left without a seed. The first present slot is the
// initial accumulator and fn is first called for the next present slot.
//
// Returns NotCallable if fn is nil and EmptyReduceNoSeed if s has no present
// slot.
func Reduce[T any](s *Sequence[T], fn Reducer[T, T]) (T, error) {
	return ReduceOption(s, fn, None[T]())
}

// Fold folds s from the left starting from seed. fn is called once per
// present slot; with no present slot seed is returned unchanged.
func Fold[T, A any](s *Sequence[T], fn Reducer[A, T], seed A) (A, error) {
	if fn == nil {
		var zero A
		return zero, NotCallable(fn)
	}
	return fold(s, lift(fn), Some(seed), nil)
}

// ReduceOption is reduce(sequence, reducer, seed?) with the seed's presence
// made explicit. Reduce and Fold are shorthands for its two paths.
func ReduceOption[T any](s *Sequence[T], fn Reducer[T, T], seed Option[T]) (T, error) {
	if fn == nil {
		var zero T
		return zero, NotCallable(fn)
	}
	return fold(s, lift(fn), seed, identity[T])
}

// TryReduce is Reduce with a fallible callback. A callback error is returned
// as a *CallbackError holding the index being visited.
func TryReduce[T any](s *Sequence[T], fn TryReducer[T, T]) (T, error) {
	return TryReduceOption(s, fn, None[T]())
}

// TryFold is Fold with a fallible callback.
func TryFold[T, A any](s *Sequence[T], fn TryReducer[A, T], seed A) (A, error) {
	if fn == nil {
		var zero A
		return zero, NotCallable(fn)
	}
	return fold(s, fn, Some(seed), nil)
}

// TryReduceOption is ReduceOption with a fallible callback.
func TryReduceOption[T any](s *Sequence[T], fn TryReducer[T, T], seed Option[T]) (T, error) {
	if fn == nil {
		var zero T
		return zero, NotCallable(fn)
	}
	return fold(s, fn, seed, identity[T])
}

// fold is the shared left fold. first converts the first present element
// into an accumulator and is only used when no seed was supplied.
func fold[T, A any](s *Sequence[T], fn TryReducer[A, T], seed Option[A], first func(T) A) (A, error) {
	var zero A

	// The length is fixed for the whole call.
	n := s.Len()

	acc, hasSeed := seed.Get()
	start := 0
	if !hasSeed {
		for start < n && !s.Has(start) {
			start++
		}
		if start >= n || first == nil {
			return zero, EmptyReduceNoSeed()
		}
		v, _ := s.At(start)
		acc = first(v)
		start++
	}

	for i := start; i < n; i++ {
		cur, ok := s.At(i)
		if !ok {
			continue
		}
		next, err := fn(acc, cur, i, s)
		if err != nil {
			return zero, &CallbackError{Index: i, Err: err}
		}
		acc = next
	}

	return acc, nil
}

func lift[A, T any](fn Reducer[A, T]) TryReducer[A, T] {
	return func(acc A, cur T, idx int, s *Sequence[T]) (A, error) {
		return fn(acc, cur, idx, s), nil
	}
}

func identity[T any](v T) T {
	return v
}
