package artifact

import (
	"strconv"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

var gateSummaryLayout = layout{
	kind:     KindGateSummary,
	required: []string{fieldSchemaVersion, "result", "checks", "exit_code"},
	optional: []string{"deltas", "metadata"},
}

var gateSummaryDecoders = map[Version]decoder[*GateSummary]{
	VersionV1: decodeGateSummaryV1,
}

// GateSummary is the pass/fail outcome written to gate_summary.json.
type GateSummary struct {
	header

	result   GateResult
	checks   []jsonvalue.Object
	exitCode ExitCode

	deltas   []jsonvalue.Object // nil when absent
	metadata jsonvalue.Object   // nil when absent
}

// ParseGateSummary validates payload and builds a GateSummary.
func ParseGateSummary(payload jsonvalue.Value) (*GateSummary, error) {
	return decode(payload, gateSummaryLayout, gateSummaryDecoders)
}

func decodeGateSummaryV1(data jsonvalue.Object, h header) (*GateSummary, error) {
	g := &GateSummary{header: h}
	var err error
	if g.result, err = parseGateResult(data["result"]); err != nil {
		return nil, err
	}
	if g.checks, err = contract.MappingSequenceOf(data["checks"], "checks"); err != nil {
		return nil, err
	}
	if g.exitCode, err = parseExitCode(data["exit_code"]); err != nil {
		return nil, err
	}
	if g.deltas, err = optionalMappingSequence(data, "deltas"); err != nil {
		return nil, err
	}
	if g.metadata, err = optionalMapping(data, "metadata"); err != nil {
		return nil, err
	}
	return g, nil
}

// Kind returns KindGateSummary.
func (g *GateSummary) Kind() Kind { return KindGateSummary }

// Result is the overall gate outcome.
func (g *GateSummary) Result() GateResult { return g.result }

// ExitCode is the process exit code recorded with the result.
func (g *GateSummary) ExitCode() ExitCode { return g.exitCode }

// Checks returns a copy of the individual gate checks.
func (g *GateSummary) Checks() []jsonvalue.Object { return jsonvalue.CloneObjects(g.checks) }

// Deltas returns the metric deltas and whether they were supplied.
func (g *GateSummary) Deltas() ([]jsonvalue.Object, bool) {
	return jsonvalue.CloneObjects(g.deltas), g.deltas != nil
}

// Metadata returns the run metadata and whether it was supplied.
func (g *GateSummary) Metadata() (jsonvalue.Object, bool) {
	return jsonvalue.CloneObject(g.metadata), g.metadata != nil
}

// ToObject returns a fresh mapping including unknown top-level fields.
func (g *GateSummary) ToObject() jsonvalue.Object {
	out := g.header.object()
	out["result"] = jsonvalue.String(g.result)
	out["checks"] = arrayOf(g.checks)
	out["exit_code"] = jsonvalue.Number(strconv.Itoa(int(g.exitCode)))
	putOptionalSequence(out, "deltas", g.deltas)
	putOptional(out, "metadata", g.metadata)
	return out
}

// CanonicalJSON returns the canonical encoding of ToObject.
func (g *GateSummary) CanonicalJSON() []byte { return canonicalJSON(g) }

// Equal reports structural equality of the canonical forms.
func (g *GateSummary) Equal(other *GateSummary) bool {
	if g == nil || other == nil {
		return g == other
	}
	return Equal(g, other)
}

// MarshalJSON implements json.Marshaler with the canonical encoding.
func (g *GateSummary) MarshalJSON() ([]byte, error) { return g.CanonicalJSON(), nil }

// UnmarshalJSON implements json.Unmarshaler and validates the payload.
func (g *GateSummary) UnmarshalJSON(data []byte) error {
	return unmarshalInto(data, ParseGateSummary, g)
}
