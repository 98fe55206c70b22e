package chaossec

import (
	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/history"
)

// Validate judges whether the security controls reacted to the injected
// fault. It is a pure function of its inputs.
//
// Under safety mode no fault was actually applied, so there is nothing
// the controls could have caught; the test passes unconditionally with
// a simulated outcome. With safety off, the test passes exactly when at
// least one compliance record flags a violation: the injected
// misconfiguration is supposed to be detected, so detection is success
// and silence is failure.
func Validate(safetyMode bool, records []cloud.ComplianceRecord) ValidationResult {
	nonCompliant := false
	for _, r := range records {
		if r.IsNonCompliant() {
			nonCompliant = true
			break
		}
	}

	result := ValidationResult{
		NonCompliantDetected: nonCompliant,
		ComplianceRecords:    len(records),
	}

	if safetyMode {
		result.TestPassed = true
		result.Outcome = history.OutcomeSuccessSimulated
		return result
	}

	result.TestPassed = nonCompliant
	if nonCompliant {
		result.Outcome = history.OutcomeSuccess
	} else {
		result.Outcome = history.OutcomeFailure
	}
	return result
}
