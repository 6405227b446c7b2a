// Package sample defines the canonical evaluation record: a prediction, an
// optional ground truth, optional confidence data and identifying metadata.
package sample

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/canonicalize"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// Required meta keys.
const (
	MetaSampleID = "sample_id"
	MetaDomain   = "domain"
	MetaSensor   = "sensor"
)

// Fields is the raw, unvalidated input to New. Nil or jsonvalue.Null in GT
// or Logits means the value was not supplied.
type Fields struct {
	Pred   jsonvalue.Value
	GT     jsonvalue.Value
	Logits jsonvalue.Value
	Meta   jsonvalue.Value
}

// Sample is a validated evaluation record. It owns independent copies of
// everything it holds; accessors return fresh copies.
type Sample struct {
	pred   jsonvalue.Value
	gt     jsonvalue.Value
	logits jsonvalue.Value
	meta   jsonvalue.Object

	sampleID string
	domain   Domain
	sensor   string
}

// New validates f and builds a Sample. The required meta fields are
// trimmed and written back into the stored meta.
func New(f Fields) (*Sample, error) {
	meta, err := contract.MappingOf(f.Meta, "meta")
	if err != nil {
		return nil, err
	}
	sampleID, err := contract.TrimmedString(meta[MetaSampleID], "meta.sample_id")
	if err != nil {
		return nil, err
	}
	domainText, err := contract.TrimmedString(meta[MetaDomain], "meta.domain")
	if err != nil {
		return nil, err
	}
	sensor, err := contract.TrimmedString(meta[MetaSensor], "meta.sensor")
	if err != nil {
		return nil, err
	}
	domain, err := ParseDomain(domainText)
	if err != nil {
		return nil, err
	}
	if jsonvalue.IsNull(f.Pred) {
		return nil, contract.Newf(contract.CodeShape, "pred", "'pred' is required and cannot be null.")
	}
	for _, p := range []struct {
		field string
		v     jsonvalue.Value
	}{{"pred", f.Pred}, {"gt", f.GT}, {"logits", f.Logits}} {
		if err := contract.WellFormed(p.v, p.field); err != nil {
			return nil, err
		}
	}

	meta[MetaSampleID] = jsonvalue.String(sampleID)
	meta[MetaDomain] = jsonvalue.String(domain)
	meta[MetaSensor] = jsonvalue.String(sensor)

	return &Sample{
		pred:     jsonvalue.Clone(f.Pred),
		gt:       optional(f.GT),
		logits:   optional(f.Logits),
		meta:     meta,
		sampleID: sampleID,
		domain:   domain,
		sensor:   sensor,
	}, nil
}

// FromValue builds a Sample from a decoded payload. The payload must hold
// both pred and meta keys; other top-level keys are ignored.
func FromValue(payload jsonvalue.Value) (*Sample, error) {
	data, err := contract.MappingOf(payload, "payload")
	if err != nil {
		return nil, err
	}
	for _, key := range []string{"pred", "meta"} {
		if !data.Has(key) {
			return nil, contract.Newf(contract.CodeMissingField, key,
				"Sample payload is missing required field '%s'.", key)
		}
	}
	return New(Fields{
		Pred:   data["pred"],
		GT:     data["gt"],
		Logits: data["logits"],
		Meta:   data["meta"],
	})
}

// FromAny converts a Go value such as map[string]any and builds a Sample.
func FromAny(payload any) (*Sample, error) {
	v, err := jsonvalue.FromAny(payload)
	if err != nil {
		return nil, contract.Newf(contract.CodeShape, "payload", "Sample payload is not representable as JSON: %v", err)
	}
	return FromValue(v)
}

// Parse decodes JSON text and builds a Sample.
func Parse(data []byte) (*Sample, error) {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, contract.Newf(contract.CodeShape, "payload", "Sample payload is not valid JSON: %v", err)
	}
	return FromValue(v)
}

func optional(v jsonvalue.Value) jsonvalue.Value {
	if jsonvalue.IsNull(v) {
		return nil
	}
	return jsonvalue.Clone(v)
}

// Pred returns a copy of the prediction.
func (s *Sample) Pred() jsonvalue.Value { return jsonvalue.Clone(s.pred) }

// GT returns a copy of the ground truth and whether it was supplied.
func (s *Sample) GT() (jsonvalue.Value, bool) {
	return jsonvalue.Clone(s.gt), s.gt != nil
}

// Logits returns a copy of the confidence data and whether it was supplied.
func (s *Sample) Logits() (jsonvalue.Value, bool) {
	return jsonvalue.Clone(s.logits), s.logits != nil
}

// Meta returns a copy of the metadata, including any extra keys.
func (s *Sample) Meta() jsonvalue.Object { return jsonvalue.CloneObject(s.meta) }

// SampleID is the trimmed meta.sample_id.
func (s *Sample) SampleID() string { return s.sampleID }

// Domain is the validated meta.domain.
func (s *Sample) Domain() Domain { return s.domain }

// Sensor is the trimmed meta.sensor.
func (s *Sample) Sensor() string { return s.sensor }

// HasGT reports whether ground truth is available for quality metrics.
func (s *Sample) HasGT() bool { return s.gt != nil }

// Validate re-checks the sample rules.
func (s *Sample) Validate() error {
	_, err := New(s.fields())
	return err
}

func (s *Sample) fields() Fields {
	f := Fields{Pred: s.pred, GT: s.gt, Logits: s.logits, Meta: s.meta}
	if s.meta == nil {
		f.Meta = nil
	}
	return f
}

// ToObject returns a fresh copy holding pred and meta, plus gt and logits
// when they were supplied.
func (s *Sample) ToObject() jsonvalue.Object {
	out := jsonvalue.Object{
		"pred": jsonvalue.Clone(s.pred),
		"meta": jsonvalue.CloneObject(s.meta),
	}
	if s.gt != nil {
		out["gt"] = jsonvalue.Clone(s.gt)
	}
	if s.logits != nil {
		out["logits"] = jsonvalue.Clone(s.logits)
	}
	return out
}

// CanonicalJSON returns the canonical encoding of ToObject.
func (s *Sample) CanonicalJSON() []byte {
	return canonicalize.Marshal(s.ToObject())
}

// Equal reports whether two samples hold structurally equal content.
func (s *Sample) Equal(other *Sample) bool {
	if s == nil || other == nil {
		return s == other
	}
	return jsonvalue.Equal(s.ToObject(), other.ToObject())
}

// MarshalJSON implements json.Marshaler with the canonical encoding.
func (s *Sample) MarshalJSON() ([]byte, error) {
	return s.CanonicalJSON(), nil
}

// UnmarshalJSON implements json.Unmarshaler and validates the payload.
func (s *Sample) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
