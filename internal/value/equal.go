package value

// Equal reports whether a and b are the same value. Arrays must have the
// same length and the same holes. Functions are equal when their names are.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Undefined, Null, Bool, Int, Str:
		return a == b
	case *Array:
		y, ok := b.(*Array)
		if !ok {
			return false
		}
		return equalArrays(x, y)
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case *Func:
		y, ok := b.(*Func)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == y
		}
		return x.Name == y.Name
	default:
		return false
	}
}

func equalArrays(x, y *Array) bool {
	if x.Len() != y.Len() {
		return false
	}
	for i := 0; i < x.Len(); i++ {
		xv, xok := x.At(i)
		yv, yok := y.At(i)
		if xok != yok {
			return false
		}
		if xok && !Equal(xv, yv) {
			return false
		}
	}
	return true
}
