// Package registry maps schema kind identifiers onto artifact schemas. It
// is the entry point for callers that learn the kind at runtime, such as a
// file path plus a --kind flag.
package registry

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifact"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// Kinds returns the known schema kinds in sorted order.
func Kinds() []string {
	ks := artifact.Kinds()
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}

// Decode validates payload as kind and returns the typed entity.
func Decode(payload jsonvalue.Value, kind string) (artifact.Artifact, error) {
	k, err := artifact.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return artifact.Parse(k, payload)
}

// Validate reports whether payload is a valid artifact of the given kind.
// The decoded entity is discarded.
func Validate(payload jsonvalue.Value, kind string) error {
	_, err := Decode(payload, kind)
	return err
}

// ValidateAny converts a Go value such as map[string]any and validates it.
func ValidateAny(payload any, kind string) error {
	if _, err := artifact.ParseKind(kind); err != nil {
		return err
	}
	v, err := jsonvalue.FromAny(payload)
	if err != nil {
		return contract.Newf(contract.CodeShape, kind, "%s payload is not representable as JSON: %v", kind, err)
	}
	return Validate(v, kind)
}
