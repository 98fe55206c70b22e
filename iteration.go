package chaossec

import (
	"time"

	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/decision"
	"github.com/zero-day-ai/chaossec/evidence"
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/scan"
	"github.com/zero-day-ai/chaossec/twin"
)

// IterationStatus is the terminal status of one iteration.
type IterationStatus string

const (
	// IterationSuccess indicates all pipeline stages completed.
	IterationSuccess IterationStatus = "success"

	// IterationError indicates the iteration ended before completing
	// the pipeline.
	IterationError IterationStatus = "error"
)

// IterationResult is the full record of one iteration. Steps holds the
// payload of every stage that ran to completion, in pipeline order; on
// failure it is the prefix up to the failing stage and Error carries
// the failure text.
type IterationResult struct {
	// ID uniquely identifies the iteration.
	ID string `json:"iteration_id"`

	// Timestamp is when the iteration started.
	Timestamp time.Time `json:"timestamp"`

	// CompletedAt is when the iteration reached its terminal status.
	CompletedAt time.Time `json:"completed_at"`

	// Status is the iteration's terminal status.
	Status IterationStatus `json:"status"`

	// Steps records completed stages and their payloads.
	Steps Steps `json:"steps"`

	// Error carries the failure text when Status is error.
	Error string `json:"error,omitempty"`
}

// SimulateResult is the simulate stage payload.
type SimulateResult struct {
	// Skipped is true when twin mirroring is disabled.
	Skipped bool `json:"skipped,omitempty"`

	// Twin identifies the created twin when mirroring ran.
	Twin *twin.Twin `json:"twin,omitempty"`

	// Error carries a twin-service failure; simulation failures degrade
	// the stage instead of ending the iteration.
	Error string `json:"error,omitempty"`
}

// ScanResult is the scan stage payload.
type ScanResult struct {
	// Report is the static-scan report for the project.
	Report *scan.Report `json:"report"`
}

// ReasonResult is the reason stage payload.
type ReasonResult struct {
	// Recommendation is the normalized next experiment.
	Recommendation decision.Recommendation `json:"recommendation"`
}

// InjectResult is the inject stage payload.
type InjectResult struct {
	// Chaos is the provider's injection report.
	Chaos *cloud.ChaosResult `json:"chaos"`
}

// MonitorResult is the monitor stage payload.
type MonitorResult struct {
	// Compliance is the provider's current compliance evaluations for
	// the target.
	Compliance []cloud.ComplianceRecord `json:"compliance"`

	// Metrics is the observed metric series, when available.
	Metrics []cloud.MetricPoint `json:"metrics,omitempty"`

	// AuditEvents are recent audit-trail events for the target.
	AuditEvents []cloud.AuditEvent `json:"audit_events,omitempty"`

	// Operation is the terminal status of the injection's long-running
	// operation, when the injection started one. A timeout is surfaced
	// here distinct from completed and failed.
	Operation *cloud.OperationStatus `json:"operation,omitempty"`
}

// ValidationResult is the validate stage payload.
type ValidationResult struct {
	// TestPassed reports whether the controls behaved as expected.
	TestPassed bool `json:"test_passed"`

	// Outcome classifies the validation: success, failure, or
	// success_simulated under safety mode.
	Outcome history.Outcome `json:"outcome"`

	// NonCompliantDetected reports whether any compliance record
	// flagged a violation.
	NonCompliantDetected bool `json:"non_compliant_detected"`

	// ComplianceRecords is the number of records examined.
	ComplianceRecords int `json:"compliance_records"`
}

// ReportResult is the report stage payload.
type ReportResult struct {
	// Evidence is the built evidence package.
	Evidence evidence.Package `json:"evidence"`

	// Uploads are the per-sink upload statuses.
	Uploads []evidence.UploadStatus `json:"uploads,omitempty"`

	// Risk is the aggregate risk assessment for the iteration.
	Risk decision.RiskAssessment `json:"risk"`
}

// LearnResult is the learn stage payload.
type LearnResult struct {
	// Entry is the history entry recorded for the iteration.
	Entry history.Entry `json:"entry"`

	// Persisted reports whether the history file write succeeded. A
	// failed write is logged and noted here, not fatal.
	Persisted bool `json:"persisted"`

	// PersistError carries the write failure text.
	PersistError string `json:"persist_error,omitempty"`
}
