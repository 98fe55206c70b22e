package cloud

import "time"

// ComplianceType is the provider-reported compliance state of a resource.
type ComplianceType string

const (
	// Compliant indicates the resource satisfies its rules.
	Compliant ComplianceType = "COMPLIANT"

	// NonCompliant indicates a rule violation was detected.
	NonCompliant ComplianceType = "NON_COMPLIANT"

	// InsufficientData indicates the provider cannot evaluate the resource.
	InsufficientData ComplianceType = "INSUFFICIENT_DATA"
)

// ComplianceRecord is one compliance evaluation for a resource.
type ComplianceRecord struct {
	// ResourceType is the provider's resource type identifier.
	ResourceType string `json:"resource_type"`

	// ResourceID identifies the evaluated resource.
	ResourceID string `json:"resource_id"`

	// ComplianceType is the evaluation result.
	ComplianceType ComplianceType `json:"compliance_type"`

	// Rule names the rule that produced the evaluation.
	Rule string `json:"rule,omitempty"`

	// RecordedAt is when the evaluation was recorded.
	RecordedAt time.Time `json:"recorded_at"`
}

// IsNonCompliant reports whether the record flags a violation.
func (r ComplianceRecord) IsNonCompliant() bool {
	return r.ComplianceType == NonCompliant
}

// MetricQuery selects a metric series from the provider.
type MetricQuery struct {
	// Namespace is the metric namespace.
	Namespace string

	// MetricName is the metric to fetch.
	MetricName string

	// Dimensions narrows the series to a specific resource.
	Dimensions map[string]string

	// Period is the datapoint aggregation period.
	Period time.Duration

	// Statistic is the aggregation to apply (Average, Sum, Maximum).
	Statistic string
}

// MetricPoint is one datapoint of a metric series.
type MetricPoint struct {
	// Timestamp is the datapoint time.
	Timestamp time.Time `json:"timestamp"`

	// Value is the aggregated value.
	Value float64 `json:"value"`

	// Unit is the metric unit.
	Unit string `json:"unit,omitempty"`
}

// AuditEvent is one audit-trail event involving a resource.
type AuditEvent struct {
	// EventID uniquely identifies the event.
	EventID string `json:"event_id"`

	// EventName is the API action that was recorded.
	EventName string `json:"event_name"`

	// EventTime is when the action occurred.
	EventTime time.Time `json:"event_time"`

	// Username is the principal that performed the action.
	Username string `json:"username,omitempty"`

	// Resources lists the resources the event touched.
	Resources []string `json:"resources,omitempty"`
}

// ChaosOutcome classifies the result of a fault injection attempt.
type ChaosOutcome string

const (
	// ChaosApplied indicates the mutation was executed for real.
	ChaosApplied ChaosOutcome = "success"

	// ChaosFailed indicates the provider could not execute the mutation.
	ChaosFailed ChaosOutcome = "failure"

	// ChaosSimulated indicates safety mode converted the mutation to a no-op.
	ChaosSimulated ChaosOutcome = "simulated"
)

// ChaosResult reports what the provider did with a fault injection.
type ChaosResult struct {
	// Target is the resource the fault was aimed at.
	Target string `json:"target"`

	// Action describes the mutation (e.g. "make_public").
	Action string `json:"action"`

	// FaultType is the fault category the decision step chose.
	FaultType string `json:"fault_type,omitempty"`

	// Applied is true only when a real mutation was executed.
	Applied bool `json:"applied"`

	// SafetyMode records the flag the action was executed under.
	SafetyMode bool `json:"safety_mode"`

	// Outcome classifies the result.
	Outcome ChaosOutcome `json:"outcome"`

	// OperationID identifies a long-running provider operation started
	// by the injection, when there is one. The monitor step waits on it.
	OperationID string `json:"operation_id,omitempty"`

	// Note carries degradation details (unrecognized fault type, etc.).
	Note string `json:"note,omitempty"`

	// Error carries the provider failure text when Outcome is failure.
	Error string `json:"error,omitempty"`

	// Reasoning is the decision step's rationale, copied through for
	// the evidence trail.
	Reasoning string `json:"reasoning,omitempty"`
}

// OperationState is the terminal state of a long-running provider operation.
type OperationState string

const (
	// OperationCompleted indicates the operation finished normally.
	OperationCompleted OperationState = "completed"

	// OperationFailed indicates the operation finished with an error.
	OperationFailed OperationState = "failed"

	// OperationTimeout indicates polling gave up before completion.
	OperationTimeout OperationState = "timeout"
)

// OperationStatus is the result of waiting on a long-running operation.
type OperationStatus struct {
	// ID identifies the operation.
	ID string `json:"id"`

	// State is the terminal state observed.
	State OperationState `json:"state"`

	// Reason carries failure or timeout details.
	Reason string `json:"reason,omitempty"`
}
