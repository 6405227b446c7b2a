package artifact

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

var baselineStatsLayout = layout{
	kind: KindBaselineStats,
	required: []string{
		fieldSchemaVersion,
		"reference_window",
		"signals",
		"detector_config",
		"thresholds",
		"class_map_hash",
	},
}

var baselineStatsDecoders = map[Version]decoder[*BaselineStats]{
	VersionV1: decodeBaselineStatsV1,
}

// BaselineStats is the reference snapshot drift runs compare against,
// written to baseline_stats.json.
type BaselineStats struct {
	header

	referenceWindow jsonvalue.Object
	signals         jsonvalue.Object
	detectorConfig  jsonvalue.Object
	thresholds      jsonvalue.Object
	classMapHash    string
}

// ParseBaselineStats validates payload and builds a BaselineStats.
func ParseBaselineStats(payload jsonvalue.Value) (*BaselineStats, error) {
	return decode(payload, baselineStatsLayout, baselineStatsDecoders)
}

func decodeBaselineStatsV1(data jsonvalue.Object, h header) (*BaselineStats, error) {
	b := &BaselineStats{header: h}
	var err error
	for _, m := range []struct {
		field string
		dst   *jsonvalue.Object
	}{
		{"reference_window", &b.referenceWindow},
		{"signals", &b.signals},
		{"detector_config", &b.detectorConfig},
		{"thresholds", &b.thresholds},
	} {
		if *m.dst, err = contract.MappingOf(data[m.field], m.field); err != nil {
			return nil, err
		}
	}
	if b.classMapHash, err = contract.NonEmptyString(data["class_map_hash"], "class_map_hash"); err != nil {
		return nil, err
	}
	return b, nil
}

// Kind returns KindBaselineStats.
func (b *BaselineStats) Kind() Kind { return KindBaselineStats }

// ReferenceWindow returns a copy of the reference window description.
func (b *BaselineStats) ReferenceWindow() jsonvalue.Object { return jsonvalue.CloneObject(b.referenceWindow) }

// Signals returns a copy of the baseline signal statistics.
func (b *BaselineStats) Signals() jsonvalue.Object { return jsonvalue.CloneObject(b.signals) }

// DetectorConfig returns a copy of the detector settings.
func (b *BaselineStats) DetectorConfig() jsonvalue.Object { return jsonvalue.CloneObject(b.detectorConfig) }

// Thresholds returns a copy of the drift thresholds.
func (b *BaselineStats) Thresholds() jsonvalue.Object { return jsonvalue.CloneObject(b.thresholds) }

// ClassMapHash identifies the class map the baseline was computed with.
func (b *BaselineStats) ClassMapHash() string { return b.classMapHash }

// ToObject returns a fresh mapping including unknown top-level fields.
func (b *BaselineStats) ToObject() jsonvalue.Object {
	out := b.header.object()
	out["reference_window"] = jsonvalue.CloneObject(b.referenceWindow)
	out["signals"] = jsonvalue.CloneObject(b.signals)
	out["detector_config"] = jsonvalue.CloneObject(b.detectorConfig)
	out["thresholds"] = jsonvalue.CloneObject(b.thresholds)
	out["class_map_hash"] = jsonvalue.String(b.classMapHash)
	return out
}

// CanonicalJSON returns the canonical encoding of ToObject.
func (b *BaselineStats) CanonicalJSON() []byte { return canonicalJSON(b) }

// Equal reports structural equality of the canonical forms.
func (b *BaselineStats) Equal(other *BaselineStats) bool {
	if b == nil || other == nil {
		return b == other
	}
	return Equal(b, other)
}

// MarshalJSON implements json.Marshaler.
func (b *BaselineStats) MarshalJSON() ([]byte, error) { return b.CanonicalJSON(), nil }

// UnmarshalJSON implements json.Unmarshaler and validates the payload.
func (b *BaselineStats) UnmarshalJSON(data []byte) error {
	return unmarshalInto(data, ParseBaselineStats, b)
}
