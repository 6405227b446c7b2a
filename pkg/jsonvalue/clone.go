package jsonvalue

// Clone returns a deep copy of v. Clone(nil) is nil.
func Clone(v Value) Value {
	switch t := v.(type) {
	case Array:
		return CloneArray(t)
	case Object:
		return CloneObject(t)
	default:
		// Scalars are immutable values.
		return v
	}
}

// CloneObject returns a deep copy of o. A nil object stays nil.
func CloneObject(o Object) Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = Clone(v)
	}
	return out
}

// CloneArray returns a deep copy of a. A nil array stays nil.
func CloneArray(a Array) Array {
	if a == nil {
		return nil
	}
	out := make(Array, len(a))
	for i, v := range a {
		out[i] = Clone(v)
	}
	return out
}

// CloneObjects deep-copies a slice of objects.
func CloneObjects(in []Object) []Object {
	if in == nil {
		return nil
	}
	out := make([]Object, len(in))
	for i, o := range in {
		out[i] = CloneObject(o)
	}
	return out
}

// Equal reports whether a and b are structurally identical.
// Numbers compare by literal text.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
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
	}
	return false
}
