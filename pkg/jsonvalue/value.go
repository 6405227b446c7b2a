// Package jsonvalue provides a closed sum type for JSON documents.
//
// A Value is exactly one of Null, Bool, Number, String, Array or Object.
// A nil Value means "absent", which is never the same thing as Null.
// Values built by this package never share backing storage with the
// caller's input; use Clone before handing a Value to code that may
// mutate it.
package jsonvalue

import (
	"sort"
	"strconv"
	"strings"
)

// Value is a JSON value. The set of implementations is closed.
type Value interface {
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number kept as its literal text, so 1 and 1.0 stay distinct.
type Number string

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

// Object is a JSON object. Key order carries no meaning.
type Object map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// IsInteger reports whether the literal has neither a fraction nor an exponent.
// Invalid literals such as "+1" or "01" are not integers.
func (n Number) IsInteger() bool {
	s := string(n)
	if !validNumber(s) {
		return false
	}
	return !strings.ContainsAny(s, ".eE")
}

// Valid reports whether the literal is a well-formed JSON number.
func (n Number) Valid() bool { return validNumber(string(n)) }

// Int64 returns the number as an int64 when it is an integer literal in range.
func (n Number) Int64() (int64, bool) {
	if !n.IsInteger() {
		return 0, false
	}
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Get returns the value stored under key and whether it is present.
func (o Object) Get(key string) (Value, bool) {
	v, ok := o[key]
	return v, ok
}

// Has reports whether key is present, including keys holding Null.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Keys returns the object's keys sorted by byte order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TypeName returns the JSON type name of v, or "absent" for nil.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "absent"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// IsNull reports whether v is absent or the null literal.
func IsNull(v Value) bool {
	switch v.(type) {
	case nil, Null:
		return true
	}
	return false
}
