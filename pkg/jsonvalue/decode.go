package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse decodes exactly one JSON document. The input must be valid UTF-8,
// number literals are kept verbatim and duplicate object keys are rejected.
func Parse(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("jsonvalue: input is not valid UTF-8")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseNext(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("jsonvalue: unexpected data after top-level value")
		}
		return nil, fmt.Errorf("jsonvalue: %w", err)
	}
	return v, nil
}

func parseNext(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("jsonvalue: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("jsonvalue: %w", err)
	}

	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := Array{}
			for dec.More() {
				v, err := parseNext(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if err := closeDelim(dec); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			obj := Object{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("jsonvalue: %w", err)
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("jsonvalue: object key must be a string, got %v", kt)
				}
				if _, dup := obj[key]; dup {
					return nil, fmt.Errorf("jsonvalue: duplicate object key %q", key)
				}
				v, err := parseNext(dec)
				if err != nil {
					return nil, err
				}
				obj[key] = v
			}
			if err := closeDelim(dec); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("jsonvalue: unexpected token %v", tok)
}

func closeDelim(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("jsonvalue: %w", err)
	}
	return nil
}

// FromAny converts a Go value into a fresh Value.
//
// Maps with string keys become objects, slices and arrays become arrays,
// nil and nil pointers become Null. Floats always keep a fractional part in
// their literal so they never pass as integers. Values of other types are
// converted through encoding/json.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		if err := Check(t); err != nil {
			return nil, err
		}
		return Clone(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if !validNumber(string(t)) {
			return nil, fmt.Errorf("jsonvalue: invalid number literal %q", string(t))
		}
		return Number(t), nil
	case json.RawMessage:
		return Parse(t)
	case int:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case float64:
		return fromFloat(t, 64)
	case map[string]any:
		obj := make(Object, len(t))
		for k, elem := range t {
			ev, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = ev
		}
		return obj, nil
	case []any:
		arr := make(Array, len(t))
		for i, elem := range t {
			ev, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32:
		return fromFloat(rv.Float(), 32)
	case reflect.Float64:
		return fromFloat(rv.Float(), 64)
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		// Byte slices are label masks here, not opaque blobs, so they
		// become numeric arrays rather than base64 text.
		return fromSequence(rv)
	case reflect.Array:
		return fromSequence(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return viaJSON(rv.Interface())
		}
		if rv.IsNil() {
			return Null{}, nil
		}
		obj := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			ev, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			obj[key] = ev
		}
		return obj, nil
	}
	return viaJSON(rv.Interface())
}

func fromSequence(rv reflect.Value) (Value, error) {
	arr := make(Array, rv.Len())
	for i := range arr {
		ev, err := FromAny(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		arr[i] = ev
	}
	return arr, nil
}

func viaJSON(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsonvalue: cannot represent %T as JSON: %w", v, err)
	}
	return Parse(data)
}

func fromFloat(f float64, bits int) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("jsonvalue: %v is not representable in JSON", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Number(s), nil
}

// validNumber reports whether s is exactly one JSON number literal, with
// no sign other than a leading minus and no surrounding whitespace.
func validNumber(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	if c := s[len(s)-1]; c < '0' || c > '9' {
		return false
	}
	return json.Valid([]byte(s))
}

// ToAny converts v into the plain Go representation used by encoding/json
// with UseNumber: map[string]any, []any, json.Number, string, bool and nil.
func ToAny(v Value) any {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Number:
		return json.Number(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = ToAny(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = ToAny(elem)
		}
		return out
	}
	return nil
}
