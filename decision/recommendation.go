package decision

// notSpecified fills required recommendation fields the model omitted.
const notSpecified = "Not specified"

// Recommendation is the decision step's output: the experiment to run
// next and the compliance control it exercises.
type Recommendation struct {
	// TargetResource is the resource to inject the fault into.
	TargetResource string `json:"target_resource"`

	// ChaosType is the fault category to inject.
	ChaosType string `json:"chaos_type"`

	// ExpectedOutcome describes what the security controls should do.
	ExpectedOutcome string `json:"expected_outcome"`

	// ValidationCriteria describes how the outcome is checked.
	ValidationCriteria string `json:"validation_criteria"`

	// ComplianceControl names the control the experiment maps to,
	// e.g. "SOC2:CC6.1".
	ComplianceControl string `json:"compliance_control"`

	// Reasoning is the model's rationale, kept for the audit trail.
	Reasoning string `json:"reasoning,omitempty"`

	// Fallback is true when the recommendation was produced locally
	// because the model call failed.
	Fallback bool `json:"fallback,omitempty"`

	// Err carries the parse failure text when the model responded with
	// something other than JSON.
	Err string `json:"error,omitempty"`
}

// IsFallback reports whether the recommendation was degraded, either at
// the call level or the parse level.
func (r Recommendation) IsFallback() bool {
	return r.Fallback || r.Err != ""
}

// fillDefaults replaces empty required fields with a placeholder so
// downstream steps never see a partially specified experiment.
func (r *Recommendation) fillDefaults() {
	for _, field := range []*string{
		&r.TargetResource,
		&r.ChaosType,
		&r.ExpectedOutcome,
		&r.ValidationCriteria,
		&r.ComplianceControl,
	} {
		if *field == "" {
			*field = notSpecified
		}
	}
}
