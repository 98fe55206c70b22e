package history

import "time"

// Outcome classifies how an iteration's chaos test concluded.
type Outcome string

const (
	// OutcomeSuccess indicates the fault was injected and detected.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailure indicates the fault was injected but not detected.
	OutcomeFailure Outcome = "failure"

	// OutcomeSuccessSimulated indicates a safety-mode run where the
	// pipeline was exercised without mutating anything.
	OutcomeSuccessSimulated Outcome = "success_simulated"
)

// IsValid checks if the outcome is a recognized value.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomeSuccessSimulated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Entry is one recorded iteration outcome. Entries are immutable once
// appended to the store.
type Entry struct {
	// IterationID identifies the iteration that produced this entry.
	IterationID string `json:"iteration_id"`

	// Timestamp is when the iteration started.
	Timestamp time.Time `json:"timestamp"`

	// Target is the resource the fault was aimed at.
	Target string `json:"target"`

	// FaultType is the category of disruption that was chosen.
	FaultType string `json:"fault_type"`

	// Outcome is the validated result of the test.
	Outcome Outcome `json:"outcome"`

	// TestPassed records whether the detection test passed.
	TestPassed bool `json:"test_passed"`

	// FindingsCount is the number of scanner findings observed.
	FindingsCount int `json:"findings_count"`

	// FailureType categorizes the failure when Outcome is failure.
	FailureType string `json:"failure_type,omitempty"`
}
