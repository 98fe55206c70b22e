package cloud

import (
	"context"
	"time"
)

// DefaultOperationWait bounds how long AwaitOperation polls before
// reporting a timeout.
const DefaultOperationWait = 5 * time.Minute

// DefaultPollInterval is the delay between operation status checks.
const DefaultPollInterval = 10 * time.Second

// Provider is the cloud collaborator the chaos loop talks to.
//
// Implementations must honor the safety flag on MakeResourcePublic:
// when it is true no external state may change and the returned result
// must report Applied=false with a simulated outcome.
type Provider interface {
	// ComplianceRecords returns the current compliance evaluations for
	// a resource.
	ComplianceRecords(ctx context.Context, resourceType, resourceID string) ([]ComplianceRecord, error)

	// Metrics fetches a metric series for the monitoring step.
	Metrics(ctx context.Context, q MetricQuery) ([]MetricPoint, error)

	// AuditEvents returns up to max recent audit-trail events that
	// touched the named resource.
	AuditEvents(ctx context.Context, resourceName string, max int) ([]AuditEvent, error)

	// MakeResourcePublic executes (or simulates, per safetyMode) the
	// public-access fault against the target storage resource.
	MakeResourcePublic(ctx context.Context, target string, safetyMode bool) (*ChaosResult, error)

	// AwaitOperation polls a long-running operation until it reaches a
	// terminal state or maxWait elapses. A timeout is reported in the
	// returned status, not as an error.
	AwaitOperation(ctx context.Context, operationID string, maxWait time.Duration) (*OperationStatus, error)
}
