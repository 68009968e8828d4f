package seq

// Option carries a value that may be omitted. The zero Option is None.
//
// It exists so that "no seed" and "a seed equal to the zero value" are
// different inputs to a fold.
type Option[A any] struct {
	value A
	ok    bool
}

// Some wraps a supplied value, including zero values and nil.
func Some[A any](v A) Option[A] {
	return Option[A]{value: v, ok: true}
}

// None returns an omitted Option.
func None[A any]() Option[A] {
	return Option[A]{}
}

// Get returns the wrapped value and whether it was supplied.
func (o Option[A]) Get() (A, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value was supplied.
func (o Option[A]) IsSome() bool {
	return o.ok
}
