package artifact

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

var reportLayout = layout{
	kind: KindReport,
	required: []string{
		fieldSchemaVersion,
		"run_info",
		"dataset",
		"metric_config",
		"summary_metrics",
		"per_class_metrics",
		"slices",
	},
	optional: []string{"regressions", "drift", "artifacts"},
}

var reportDecoders = map[Version]decoder[*Report]{
	VersionV1: decodeReportV1,
}

// Report is the evaluation report written to report.json.
//
// Drift holds an informal summary of a drift run. It is an open mapping and
// is not checked against the Drift schema; the two version independently.
type Report struct {
	header

	runInfo         jsonvalue.Object
	dataset         jsonvalue.Object
	metricConfig    jsonvalue.Object
	summaryMetrics  jsonvalue.Object
	perClassMetrics jsonvalue.Object
	slices          []jsonvalue.Object

	regressions []jsonvalue.Object // nil when absent
	drift       jsonvalue.Object   // nil when absent
	artifacts   jsonvalue.Object   // nil when absent
}

// ParseReport validates payload and builds a Report.
func ParseReport(payload jsonvalue.Value) (*Report, error) {
	return decode(payload, reportLayout, reportDecoders)
}

func decodeReportV1(data jsonvalue.Object, h header) (*Report, error) {
	r := &Report{header: h}
	var err error
	for _, m := range []struct {
		field string
		dst   *jsonvalue.Object
	}{
		{"run_info", &r.runInfo},
		{"dataset", &r.dataset},
		{"metric_config", &r.metricConfig},
		{"summary_metrics", &r.summaryMetrics},
		{"per_class_metrics", &r.perClassMetrics},
	} {
		if *m.dst, err = contract.MappingOf(data[m.field], m.field); err != nil {
			return nil, err
		}
	}
	if r.slices, err = contract.MappingSequenceOf(data["slices"], "slices"); err != nil {
		return nil, err
	}
	if r.regressions, err = optionalMappingSequence(data, "regressions"); err != nil {
		return nil, err
	}
	if r.drift, err = optionalMapping(data, "drift"); err != nil {
		return nil, err
	}
	if r.artifacts, err = optionalMapping(data, "artifacts"); err != nil {
		return nil, err
	}
	return r, nil
}

// Kind returns KindReport.
func (r *Report) Kind() Kind { return KindReport }

// RunInfo returns a copy of the run description.
func (r *Report) RunInfo() jsonvalue.Object { return jsonvalue.CloneObject(r.runInfo) }

// Dataset returns a copy of the dataset description.
func (r *Report) Dataset() jsonvalue.Object { return jsonvalue.CloneObject(r.dataset) }

// MetricConfig returns a copy of the metric settings.
func (r *Report) MetricConfig() jsonvalue.Object { return jsonvalue.CloneObject(r.metricConfig) }

// SummaryMetrics returns a copy of the aggregate metrics.
func (r *Report) SummaryMetrics() jsonvalue.Object { return jsonvalue.CloneObject(r.summaryMetrics) }

// PerClassMetrics returns a copy of the metrics keyed by class.
func (r *Report) PerClassMetrics() jsonvalue.Object { return jsonvalue.CloneObject(r.perClassMetrics) }

// Slices returns a copy of the per-slice results.
func (r *Report) Slices() []jsonvalue.Object { return jsonvalue.CloneObjects(r.slices) }

// Regressions returns the regression entries and whether they were supplied.
func (r *Report) Regressions() ([]jsonvalue.Object, bool) {
	return jsonvalue.CloneObjects(r.regressions), r.regressions != nil
}

// Drift returns the embedded drift summary and whether it was supplied.
func (r *Report) Drift() (jsonvalue.Object, bool) {
	return jsonvalue.CloneObject(r.drift), r.drift != nil
}

// Artifacts returns the rendered artifact paths and whether they were supplied.
func (r *Report) Artifacts() (jsonvalue.Object, bool) {
	return jsonvalue.CloneObject(r.artifacts), r.artifacts != nil
}

// ToObject returns a fresh mapping including unknown top-level fields.
func (r *Report) ToObject() jsonvalue.Object {
	out := r.header.object()
	out["run_info"] = jsonvalue.CloneObject(r.runInfo)
	out["dataset"] = jsonvalue.CloneObject(r.dataset)
	out["metric_config"] = jsonvalue.CloneObject(r.metricConfig)
	out["summary_metrics"] = jsonvalue.CloneObject(r.summaryMetrics)
	out["per_class_metrics"] = jsonvalue.CloneObject(r.perClassMetrics)
	out["slices"] = arrayOf(r.slices)
	putOptionalSequence(out, "regressions", r.regressions)
	putOptional(out, "drift", r.drift)
	putOptional(out, "artifacts", r.artifacts)
	return out
}

// CanonicalJSON returns the canonical encoding of ToObject.
func (r *Report) CanonicalJSON() []byte { return canonicalJSON(r) }

// Equal reports structural equality of the canonical forms.
func (r *Report) Equal(other *Report) bool {
	if r == nil || other == nil {
		return r == other
	}
	return Equal(r, other)
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) { return r.CanonicalJSON(), nil }

// UnmarshalJSON implements json.Unmarshaler and validates the payload.
func (r *Report) UnmarshalJSON(data []byte) error {
	return unmarshalInto(data, ParseReport, r)
}
