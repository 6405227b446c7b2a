// Package contract holds the single error kind raised at the SegAudit data
// boundary and the shape primitives every schema is built from.
//
// The primitives are pure: they never log and never touch external
// resources. Every successful call returns a value the caller owns.
package contract

import (
	"errors"
	"fmt"
	"strings"
)

// Deterministic violation codes.
const (
	CodeMissingField       = "ERR_CONTRACT_MISSING_FIELD"
	CodeShape              = "ERR_CONTRACT_SHAPE"
	CodeEnum               = "ERR_CONTRACT_ENUM"
	CodeFixedValue         = "ERR_CONTRACT_FIXED_VALUE"
	CodeUnsupportedVersion = "ERR_CONTRACT_UNSUPPORTED_VERSION"
	CodeUnknownKind        = "ERR_CONTRACT_UNKNOWN_KIND"
	CodeFile               = "ERR_CONTRACT_FILE"
)

// ErrViolation matches every *Violation with errors.Is.
var ErrViolation = errors.New("contract violation")

// Violation is raised whenever input fails a shape, required-field, enum or
// fixed-value check. Error returns the human-readable message only.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (v *Violation) Error() string {
	return v.Message
}

// Is makes errors.Is(err, ErrViolation) true for any violation.
func (v *Violation) Is(target error) bool {
	return target == ErrViolation
}

// Newf builds a violation with a formatted message.
func Newf(code, field, format string, args ...any) *Violation {
	return &Violation{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsViolation extracts the violation from err, if any.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// MissingFields reports every absent required field of a schema at once.
func MissingFields(schema string, fields []string) *Violation {
	return &Violation{
		Code:    CodeMissingField,
		Field:   strings.Join(fields, ","),
		Message: fmt.Sprintf("%s payload is missing required field(s): %s.", schema, strings.Join(fields, ", ")),
	}
}

// NotInSet reports a value outside a closed set. allowed must already be
// sorted; got is rendered as it should appear in the message.
func NotInSet(code, field string, allowed []string, got string) *Violation {
	return Newf(code, field, "'%s' must be one of {%s}, got %s.", field, strings.Join(allowed, ", "), got)
}

// Quote renders a rejected string value for NotInSet.
func Quote(s string) string {
	return "'" + s + "'"
}
