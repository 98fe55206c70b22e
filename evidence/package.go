package evidence

import "time"

// evidenceType tags every package produced by the loop.
const evidenceType = "automated_chaos_test"

// Package is one unit of compliance evidence: an executed experiment,
// its outcome, and the controls it exercised.
type Package struct {
	// TestID is the iteration the evidence came from.
	TestID string `json:"test_id"`

	// Timestamp is when the experiment ran.
	Timestamp time.Time `json:"timestamp"`

	// EvidenceType tags the collection mechanism.
	EvidenceType string `json:"evidence_type"`

	// Target is the resource the fault was injected into.
	Target string `json:"target"`

	// FaultType is the injected fault category.
	FaultType string `json:"fault_type"`

	// Controls are the framework controls the experiment exercised.
	Controls ControlMapping `json:"controls"`

	// ControlIDs are the flattened framework-qualified identifiers.
	ControlIDs []string `json:"control_ids"`

	// Description is the human-readable experiment description.
	Description string `json:"description"`

	// TestPassed reports whether the security controls behaved as expected.
	TestPassed bool `json:"test_passed"`

	// Outcome is the validation outcome string.
	Outcome string `json:"outcome"`

	// SafetyMode records whether the fault was simulated.
	SafetyMode bool `json:"safety_mode"`

	// Artifacts carries supporting data (scan counts, compliance records).
	Artifacts map[string]any `json:"artifacts,omitempty"`
}

// Input is the iteration data an evidence package is built from.
type Input struct {
	TestID      string
	Timestamp   time.Time
	Target      string
	FaultType   string
	Description string
	TestPassed  bool
	Outcome     string
	SafetyMode  bool
	Artifacts   map[string]any
}

// Build assembles a Package from iteration data, resolving the control
// mapping for the fault type.
func Build(in Input) Package {
	controls, _ := MapControls(in.FaultType)
	return Package{
		TestID:       in.TestID,
		Timestamp:    in.Timestamp,
		EvidenceType: evidenceType,
		Target:       in.Target,
		FaultType:    in.FaultType,
		Controls:     controls,
		ControlIDs:   controls.ControlIDs(),
		Description:  in.Description,
		TestPassed:   in.TestPassed,
		Outcome:      in.Outcome,
		SafetyMode:   in.SafetyMode,
		Artifacts:    in.Artifacts,
	}
}
