package artifact

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// Interpretation is the only value a drift artifact may declare.
const Interpretation = "risk_signal"

var driftLayout = layout{
	kind: KindDrift,
	required: []string{
		fieldSchemaVersion,
		"baseline_ref",
		"signals",
		"severity",
		"disclaimer",
		"interpretation",
		"requires_gt_for_quality_confirmation",
	},
}

var driftDecoders = map[Version]decoder[*Drift]{
	VersionV1: decodeDriftV1,
}

// Drift is the prediction-only drift report written to drift.json. It is a
// risk signal; quality confirmation always requires ground truth.
type Drift struct {
	header

	baselineRef jsonvalue.Object
	signals     []jsonvalue.Object
	severity    Severity
	disclaimer  string
}

// ParseDrift validates payload and builds a Drift.
func ParseDrift(payload jsonvalue.Value) (*Drift, error) {
	return decode(payload, driftLayout, driftDecoders)
}

func decodeDriftV1(data jsonvalue.Object, h header) (*Drift, error) {
	d := &Drift{header: h}
	var err error
	if d.baselineRef, err = contract.MappingOf(data["baseline_ref"], "baseline_ref"); err != nil {
		return nil, err
	}
	if d.signals, err = contract.MappingSequenceOf(data["signals"], "signals"); err != nil {
		return nil, err
	}
	if d.severity, err = parseSeverity(data["severity"]); err != nil {
		return nil, err
	}
	if d.disclaimer, err = contract.NonEmptyString(data["disclaimer"], "disclaimer"); err != nil {
		return nil, err
	}
	if s, ok := data["interpretation"].(jsonvalue.String); !ok || string(s) != Interpretation {
		return nil, contract.Newf(contract.CodeFixedValue, "interpretation",
			"'interpretation' must be %s.", contract.Quote(Interpretation))
	}
	requiresGT, err := contract.Boolean(data["requires_gt_for_quality_confirmation"], "requires_gt_for_quality_confirmation")
	if err != nil {
		return nil, err
	}
	if !requiresGT {
		return nil, contract.Newf(contract.CodeFixedValue, "requires_gt_for_quality_confirmation",
			"'requires_gt_for_quality_confirmation' must be true for drift outputs.")
	}
	return d, nil
}

// Kind returns KindDrift.
func (d *Drift) Kind() Kind { return KindDrift }

// BaselineRef returns a copy of the baseline reference.
func (d *Drift) BaselineRef() jsonvalue.Object { return jsonvalue.CloneObject(d.baselineRef) }

// Signals returns a copy of the drift signals.
func (d *Drift) Signals() []jsonvalue.Object { return jsonvalue.CloneObjects(d.signals) }

// Severity is the overall drift severity.
func (d *Drift) Severity() Severity { return d.severity }

// Disclaimer is the human-readable caveat shipped with the result.
func (d *Drift) Disclaimer() string { return d.disclaimer }

// Interpretation is always the fixed Interpretation value.
func (d *Drift) Interpretation() string { return Interpretation }

// RequiresGTForQualityConfirmation is always true for a decoded Drift.
func (d *Drift) RequiresGTForQualityConfirmation() bool { return true }

// ToObject returns a fresh mapping including unknown top-level fields.
func (d *Drift) ToObject() jsonvalue.Object {
	out := d.header.object()
	out["baseline_ref"] = jsonvalue.CloneObject(d.baselineRef)
	out["signals"] = arrayOf(d.signals)
	out["severity"] = jsonvalue.String(d.severity)
	out["disclaimer"] = jsonvalue.String(d.disclaimer)
	out["interpretation"] = jsonvalue.String(Interpretation)
	out["requires_gt_for_quality_confirmation"] = jsonvalue.Bool(true)
	return out
}

// CanonicalJSON returns the canonical encoding of ToObject.
func (d *Drift) CanonicalJSON() []byte { return canonicalJSON(d) }

// Equal reports structural equality of the canonical forms.
func (d *Drift) Equal(other *Drift) bool {
	if d == nil || other == nil {
		return d == other
	}
	return Equal(d, other)
}

// MarshalJSON implements json.Marshaler.
func (d *Drift) MarshalJSON() ([]byte, error) { return d.CanonicalJSON(), nil }

// UnmarshalJSON implements json.Unmarshaler and validates the payload.
func (d *Drift) UnmarshalJSON(data []byte) error {
	return unmarshalInto(data, ParseDrift, d)
}
