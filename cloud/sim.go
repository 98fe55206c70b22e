package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// publicAccessRule is the compliance rule the simulated fault violates.
const publicAccessRule = "storage-bucket-public-read-prohibited"

// SimProvider is an in-memory Provider for safety-mode runs and tests.
//
// It keeps a per-resource compliance table. A real (non-safety) injection
// flips the target's compliance record to NON_COMPLIANT so the validation
// step can observe the violation the same way it would against a live
// provider.
type SimProvider struct {
	mu         sync.Mutex
	compliance map[string][]ComplianceRecord
	metrics    []MetricPoint
	events     []AuditEvent
	operations map[string]OperationState
	injectErr  error

	logger *slog.Logger
	now    func() time.Time
}

// NewSimProvider returns an empty simulated provider.
func NewSimProvider(logger *slog.Logger) *SimProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimProvider{
		compliance: make(map[string][]ComplianceRecord),
		operations: make(map[string]OperationState),
		logger:     logger,
		now:        time.Now,
	}
}

// SeedCompliance sets the compliance records returned for a resource.
func (p *SimProvider) SeedCompliance(resourceID string, records ...ComplianceRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compliance[resourceID] = append([]ComplianceRecord(nil), records...)
}

// SeedMetrics sets the metric series returned by Metrics.
func (p *SimProvider) SeedMetrics(points ...MetricPoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = append([]MetricPoint(nil), points...)
}

// SeedAuditEvents sets the audit events returned by AuditEvents.
func (p *SimProvider) SeedAuditEvents(events ...AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append([]AuditEvent(nil), events...)
}

// SeedOperation sets the terminal state AwaitOperation reports for an id.
func (p *SimProvider) SeedOperation(id string, state OperationState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.operations[id] = state
}

// FailInjections makes subsequent MakeResourcePublic calls return err.
func (p *SimProvider) FailInjections(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.injectErr = err
}

// ComplianceRecords implements Provider.
func (p *SimProvider) ComplianceRecords(ctx context.Context, resourceType, resourceID string) ([]ComplianceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ComplianceRecord(nil), p.compliance[resourceID]...), nil
}

// Metrics implements Provider.
func (p *SimProvider) Metrics(ctx context.Context, q MetricQuery) ([]MetricPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]MetricPoint(nil), p.metrics...), nil
}

// AuditEvents implements Provider.
func (p *SimProvider) AuditEvents(ctx context.Context, resourceName string, max int) ([]AuditEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	events := p.events
	if max > 0 && len(events) > max {
		events = events[:max]
	}
	return append([]AuditEvent(nil), events...), nil
}

// MakeResourcePublic implements Provider. With safetyMode set the call is
// a pure no-op that reports a simulated outcome.
func (p *SimProvider) MakeResourcePublic(ctx context.Context, target string, safetyMode bool) (*ChaosResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ChaosResult{
		Target:     target,
		Action:     "make_public",
		SafetyMode: safetyMode,
	}

	if safetyMode {
		p.logger.Info("safety mode on, simulating public-access fault",
			"target", target)
		result.Applied = false
		result.Outcome = ChaosSimulated
		result.Note = "would remove public access block and apply public-read policy"
		return result, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.injectErr != nil {
		result.Applied = false
		result.Outcome = ChaosFailed
		result.Error = p.injectErr.Error()
		return result, fmt.Errorf("make resource public %q: %w", target, p.injectErr)
	}

	p.compliance[target] = append(p.compliance[target], ComplianceRecord{
		ResourceType:   "storage_bucket",
		ResourceID:     target,
		ComplianceType: NonCompliant,
		Rule:           publicAccessRule,
		RecordedAt:     p.now(),
	})

	p.logger.Warn("applied public-access fault", "target", target)
	result.Applied = true
	result.Outcome = ChaosApplied
	return result, nil
}

// AwaitOperation implements Provider. Unknown operations report a timeout
// once maxWait elapses; seeded operations resolve immediately.
func (p *SimProvider) AwaitOperation(ctx context.Context, operationID string, maxWait time.Duration) (*OperationStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	state, ok := p.operations[operationID]
	p.mu.Unlock()

	status := &OperationStatus{ID: operationID}
	if !ok {
		status.State = OperationTimeout
		status.Reason = fmt.Sprintf("no terminal state after %s", maxWait)
		return status, nil
	}

	status.State = state
	if state == OperationFailed {
		status.Reason = "operation reported failure"
	}
	return status, nil
}

var _ Provider = (*SimProvider)(nil)
