package contract

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// WellFormed requires every part of v to be writable as JSON; see
// jsonvalue.Check. An absent v passes.
func WellFormed(v jsonvalue.Value, field string) error {
	err := jsonvalue.Check(v)
	if err == nil {
		return nil
	}
	var ce *jsonvalue.CheckError
	if !errors.As(err, &ce) {
		return Newf(CodeShape, field, "'%s' is not valid JSON: %v.", field, err)
	}
	at := field
	switch {
	case ce.Path == "":
	case strings.HasPrefix(ce.Path, "["):
		at = field + ce.Path
	default:
		at = field + "." + ce.Path
	}
	return Newf(CodeShape, at, "'%s' is not valid JSON: %s.", at, ce.Reason)
}

// MappingOf succeeds iff v is a well-formed object and returns a deep copy
// of it.
func MappingOf(v jsonvalue.Value, field string) (jsonvalue.Object, error) {
	obj, ok := v.(jsonvalue.Object)
	if !ok {
		return nil, Newf(CodeShape, field, "'%s' must be a mapping.", field)
	}
	if err := WellFormed(obj, field); err != nil {
		return nil, err
	}
	if obj == nil {
		return jsonvalue.Object{}, nil
	}
	return jsonvalue.CloneObject(obj), nil
}

// SequenceOf succeeds iff v is a well-formed array and returns a deep copy
// of it.
func SequenceOf(v jsonvalue.Value, field string) (jsonvalue.Array, error) {
	arr, ok := v.(jsonvalue.Array)
	if !ok {
		return nil, Newf(CodeShape, field, "'%s' must be a list.", field)
	}
	if err := WellFormed(arr, field); err != nil {
		return nil, err
	}
	if arr == nil {
		return jsonvalue.Array{}, nil
	}
	return jsonvalue.CloneArray(arr), nil
}

// MappingSequenceOf requires an array whose every element is an object.
// Element failures are reported as field[i].
func MappingSequenceOf(v jsonvalue.Value, field string) ([]jsonvalue.Object, error) {
	arr, err := SequenceOf(v, field)
	if err != nil {
		return nil, err
	}
	out := make([]jsonvalue.Object, 0, len(arr))
	for i, elem := range arr {
		obj, err := MappingOf(elem, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// NonEmptyString requires text that is not blank after trimming. The value
// is returned untrimmed.
func NonEmptyString(v jsonvalue.Value, field string) (string, error) {
	s, ok := v.(jsonvalue.String)
	if !ok || strings.TrimSpace(string(s)) == "" {
		return "", Newf(CodeShape, field, "'%s' must be a non-empty string.", field)
	}
	return string(s), nil
}

// TrimmedString is NonEmptyString that returns the trimmed text.
func TrimmedString(v jsonvalue.Value, field string) (string, error) {
	s, err := NonEmptyString(v, field)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Integer requires an integral number literal that fits in an int64.
// Booleans and fractional literals such as 1.0 are rejected.
func Integer(v jsonvalue.Value, field string) (int64, error) {
	n, ok := v.(jsonvalue.Number)
	if ok {
		if i, ok := n.Int64(); ok {
			return i, nil
		}
	}
	return 0, Newf(CodeShape, field, "'%s' must be an integer.", field)
}

// Boolean requires a JSON boolean.
func Boolean(v jsonvalue.Value, field string) (bool, error) {
	b, ok := v.(jsonvalue.Bool)
	if !ok {
		return false, Newf(CodeShape, field, "'%s' must be a boolean.", field)
	}
	return bool(b), nil
}

// RequireKeys collects every required key absent from m and, if any are
// missing, fails once naming all of them in declaration order.
func RequireKeys(m jsonvalue.Object, required []string, schema string) error {
	var missing []string
	for _, key := range required {
		if !m.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return MissingFields(schema, missing)
	}
	return nil
}

// OneOf requires a non-empty string drawn from allowed. The message lists
// allowed in sorted order.
func OneOf(v jsonvalue.Value, field string, allowed []string) (string, error) {
	s, err := NonEmptyString(v, field)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	return "", NotInSet(CodeEnum, field, sorted, Quote(s))
}
