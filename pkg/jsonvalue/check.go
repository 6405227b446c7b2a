package jsonvalue

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// CheckError reports the first part of a Value that cannot be written as
// JSON. Path is relative to the checked value, e.g. "a.b[2]"; it is empty
// when the value itself is at fault.
type CheckError struct {
	Path   string
	Reason string
}

func (e *CheckError) Error() string {
	if e.Path == "" {
		return "jsonvalue: " + e.Reason
	}
	return fmt.Sprintf("jsonvalue: %s: %s", e.Path, e.Reason)
}

// Check walks v and reports number literals that are not valid JSON
// numbers, strings and keys that are not valid UTF-8, and absent (nil)
// members inside arrays or objects. Check(nil) is nil: absence at the top
// is for the caller to judge.
func Check(v Value) error {
	if v == nil {
		return nil
	}
	return check(v, "")
}

func check(v Value, path string) error {
	switch t := v.(type) {
	case nil:
		return &CheckError{Path: path, Reason: "absent value"}
	case Null, Bool:
		return nil
	case Number:
		if !validNumber(string(t)) {
			return &CheckError{Path: path, Reason: "invalid number literal " + strconv.Quote(string(t))}
		}
	case String:
		if !utf8.ValidString(string(t)) {
			return &CheckError{Path: path, Reason: "string is not valid UTF-8"}
		}
	case Array:
		for i, elem := range t {
			if err := check(elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case Object:
		// Sorted so the first reported problem is deterministic.
		for _, k := range t.Keys() {
			if !utf8.ValidString(k) {
				return &CheckError{Path: path, Reason: "object key is not valid UTF-8"}
			}
			member := k
			if path != "" {
				member = path + "." + k
			}
			if err := check(t[k], member); err != nil {
				return err
			}
		}
	default:
		return &CheckError{Path: path, Reason: fmt.Sprintf("unsupported value type %T", v)}
	}
	return nil
}
