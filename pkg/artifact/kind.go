package artifact

import (
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// Kind identifies one of the artifact schemas.
type Kind string

const (
	KindBaselineStats Kind = "baseline_stats"
	KindDrift         Kind = "drift"
	KindGateSummary   Kind = "gate_summary"
	KindReport        Kind = "report"
)

// Kinds returns every known kind in sorted order.
func Kinds() []Kind {
	return []Kind{KindBaselineStats, KindDrift, KindGateSummary, KindReport}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBaselineStats, KindDrift, KindGateSummary, KindReport:
		return true
	}
	return false
}

// FileName is the conventional on-disk name of the artifact.
func (k Kind) FileName() string { return string(k) + ".json" }

// ParseKind resolves a kind identifier.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", contract.Newf(contract.CodeUnknownKind, "schema_kind",
			"Unsupported schema kind %s. Expected one of {%s}.", contract.Quote(s), joinNames(names(Kinds())))
	}
	return k, nil
}

// Artifact is implemented by every decoded artifact entity.
type Artifact interface {
	Kind() Kind
	SchemaVersion() Version
	// ToObject returns a fresh copy of the canonical form. Optional fields
	// that were never supplied are omitted; unknown fields are kept.
	ToObject() jsonvalue.Object
	// CanonicalJSON returns the canonical encoding of ToObject.
	CanonicalJSON() []byte
}

// Parse decodes payload as the given kind.
func Parse(kind Kind, payload jsonvalue.Value) (Artifact, error) {
	var (
		a   Artifact
		err error
	)
	switch kind {
	case KindReport:
		a, err = ParseReport(payload)
	case KindGateSummary:
		a, err = ParseGateSummary(payload)
	case KindDrift:
		a, err = ParseDrift(payload)
	case KindBaselineStats:
		a, err = ParseBaselineStats(payload)
	default:
		_, err = ParseKind(string(kind))
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
