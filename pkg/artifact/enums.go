package artifact

import (
	"fmt"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// GateResult is the outcome of a gate evaluation.
type GateResult string

const (
	GatePass  GateResult = "pass"
	GateFail  GateResult = "fail"
	GateError GateResult = "error"
)

// GateResults returns every result in sorted order.
func GateResults() []GateResult {
	return []GateResult{GateError, GateFail, GatePass}
}

// ExitCode maps a result onto the process exit code convention.
func (r GateResult) ExitCode() ExitCode {
	switch r {
	case GatePass:
		return ExitPass
	case GateFail:
		return ExitFail
	default:
		return ExitError
	}
}

// ExitCode is the CI-facing process exit code of a gate run.
type ExitCode int

const (
	ExitPass  ExitCode = 0
	ExitFail  ExitCode = 1
	ExitError ExitCode = 2 // error or not implemented
)

// ExitCodes returns every exit code in ascending order.
func ExitCodes() []ExitCode {
	return []ExitCode{ExitPass, ExitFail, ExitError}
}

// Severity grades a drift signal.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities returns every severity in sorted order.
func Severities() []Severity {
	return []Severity{SeverityHigh, SeverityLow, SeverityMedium}
}

func parseGateResult(v jsonvalue.Value) (GateResult, error) {
	s, err := contract.OneOf(v, "result", names(GateResults()))
	return GateResult(s), err
}

func parseSeverity(v jsonvalue.Value) (Severity, error) {
	s, err := contract.OneOf(v, "severity", names(Severities()))
	return Severity(s), err
}

func parseExitCode(v jsonvalue.Value) (ExitCode, error) {
	i, err := contract.Integer(v, "exit_code")
	if err != nil {
		return 0, err
	}
	codes := ExitCodes()
	allowed := make([]string, len(codes))
	for idx, c := range codes {
		if int64(c) == i {
			return c, nil
		}
		allowed[idx] = fmt.Sprint(int(c))
	}
	return 0, contract.NotInSet(contract.CodeEnum, "exit_code", allowed, fmt.Sprint(i))
}

func names[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
