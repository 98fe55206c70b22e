package chaossec

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/config"
	"github.com/zero-day-ai/chaossec/decision"
	"github.com/zero-day-ai/chaossec/evidence"
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/scan"
	"github.com/zero-day-ai/chaossec/twin"
)

// tracerName is the instrumentation scope for loop spans.
const tracerName = "github.com/zero-day-ai/chaossec"

// storageResourceType is the provider resource type for the targets the
// loop currently injects faults into.
const storageResourceType = "storage_bucket"

// maxAuditEvents bounds the audit-trail fetch in the monitor stage.
const maxAuditEvents = 10

// Loop runs chaos and compliance iterations against a project.
type Loop struct {
	id  string
	cfg *config.Config

	scanner  Scanner
	decider  Decider
	provider cloud.Provider
	twin     TwinMirror
	sinks    []evidence.Sink
	store    *history.Store

	executed   int
	lastTwinID string

	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
	newID  func() string
}

// NewLoop builds a Loop from the configuration. A Decider must be
// provided via WithDecider; the other collaborators default to the
// local scanner, the simulated provider, a local evidence sink, and a
// history store at the configured path.
func NewLoop(cfg *config.Config, opts ...Option) (*Loop, error) {
	const op = "NewLoop"

	if cfg == nil {
		return nil, newError(op, KindConfiguration, fmt.Errorf("%w: nil config", ErrInvalidConfig))
	}
	if err := cfg.Validate(); err != nil {
		return nil, newError(op, KindConfiguration, err)
	}

	l := &Loop{
		id:     "loop-" + uuid.NewString(),
		cfg:    cfg,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
		sleep:  sleepContext,
		newID:  func() string { return "iter-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.decider == nil {
		return nil, newError(op, KindConfiguration, fmt.Errorf("%w: a decider is required", ErrInvalidConfig))
	}
	l.logger = l.logger.With("correlation_id", l.id)
	if l.scanner == nil {
		l.scanner = scan.NewScanner(l.logger)
	}
	if l.provider == nil {
		l.provider = cloud.NewSimProvider(l.logger)
	}
	if l.store == nil {
		l.store = history.NewStore(cfg.HistoryPath)
	}
	if l.sinks == nil {
		l.sinks = []evidence.Sink{evidence.NewLocalSink(cfg.Evidence.Dir)}
	}

	return l, nil
}

// RunIteration executes one full pipeline pass. It always returns a
// result: a stage failure ends the iteration with status error and the
// completed stages recorded up to that point.
func (l *Loop) RunIteration(ctx context.Context) *IterationResult {
	result := &IterationResult{
		ID:        l.newID(),
		Timestamp: l.now(),
		Status:    IterationSuccess,
	}
	l.executed++

	ctx, span := l.tracer.Start(ctx, "chaossec.iteration",
		trace.WithAttributes(
			attribute.String("iteration.id", result.ID),
			attribute.Bool("safety_mode", l.cfg.SafetyMode),
		))
	defer span.End()

	l.logger.Info("iteration started",
		"iteration_id", result.ID,
		"safety_mode", l.cfg.SafetyMode)

	if err := l.runStages(ctx, result); err != nil {
		result.Status = IterationError
		result.Error = err.Error()
		result.CompletedAt = l.now()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.Error("iteration failed",
			"iteration_id", result.ID,
			"completed_stages", len(result.Steps.Names()),
			"error", err)
		return result
	}

	result.CompletedAt = l.now()
	l.logger.Info("iteration completed", "iteration_id", result.ID)
	return result
}

// StateSummary is a point-in-time view of the loop's execution state.
type StateSummary struct {
	// CorrelationID identifies the loop across its log lines.
	CorrelationID string `json:"correlation_id"`

	// SafetyMode is the flag iterations execute under.
	SafetyMode bool `json:"safety_mode"`

	// TwinID is the most recently created digital twin, if any.
	TwinID string `json:"twin_id,omitempty"`

	// Executed counts iterations run by this loop, including failed ones.
	Executed int `json:"executed"`

	// HistoryLen is the total number of recorded history entries.
	HistoryLen int `json:"history_len"`

	// Recent holds the latest history entries, oldest first.
	Recent []history.Entry `json:"recent,omitempty"`
}

// State reports the loop's current state.
func (l *Loop) State() StateSummary {
	return StateSummary{
		CorrelationID: l.id,
		SafetyMode:    l.cfg.SafetyMode,
		TwinID:        l.lastTwinID,
		Executed:      l.executed,
		HistoryLen:    l.store.Len(),
		Recent:        l.store.Recent(5),
	}
}

// runStages walks the pipeline, recording each completed stage into the
// result. Returning an error leaves the already-recorded prefix intact.
func (l *Loop) runStages(ctx context.Context, result *IterationResult) error {
	simulated := l.stageSimulate(ctx)
	result.Steps.Record(StepSimulate, simulated)

	report := l.stageScan(ctx)
	result.Steps.Record(StepScan, ScanResult{Report: report})

	rec := l.stageReason(ctx, report)
	result.Steps.Record(StepReason, ReasonResult{Recommendation: rec})

	chaos := l.stageInject(ctx, rec)
	result.Steps.Record(StepInject, InjectResult{Chaos: chaos})

	monitored, err := l.stageMonitor(ctx, rec.TargetResource, chaos)
	if err != nil {
		return newError("Loop.RunIteration", KindMonitoring, err)
	}
	result.Steps.Record(StepMonitor, monitored)

	validation := l.stageValidate(ctx, monitored.Compliance)
	result.Steps.Record(StepValidate, validation)

	reported := l.stageReport(ctx, result.ID, result.Timestamp, rec, chaos, report, monitored, validation)
	result.Steps.Record(StepReport, reported)

	learned := l.stageLearn(ctx, result.ID, rec, chaos, report, validation)
	result.Steps.Record(StepLearn, learned)

	return nil
}

// stageSimulate mirrors the target infrastructure into a digital twin.
// Twin failures degrade the stage rather than ending the iteration.
func (l *Loop) stageSimulate(ctx context.Context) SimulateResult {
	ctx, span := l.tracer.Start(ctx, "chaossec.simulate")
	defer span.End()

	if l.twin == nil || !l.cfg.Twin.Enabled {
		return SimulateResult{Skipped: true}
	}

	created, err := l.twin.CreateTwin(ctx, l.cfg.Twin.Workspace, []twin.ResourceDescriptor{
		{Type: storageResourceType, Name: "s3-chaossec-test-bucket"},
	})
	if err != nil {
		span.RecordError(err)
		l.logger.Warn("twin creation failed, continuing without twin", "error", err)
		return SimulateResult{Error: err.Error()}
	}
	l.lastTwinID = created.ID
	return SimulateResult{Twin: created}
}

// stageScan runs the static scanner over the project. The scanner
// reports its own failures inside the report.
func (l *Loop) stageScan(ctx context.Context) *scan.Report {
	ctx, span := l.tracer.Start(ctx, "chaossec.scan")
	defer span.End()

	report := l.scanner.ScanSelf(ctx, l.cfg.ProjectRoot)
	span.SetAttributes(
		attribute.String("scan.status", string(report.Status)),
		attribute.Int("scan.findings", report.FindingCount()),
	)
	l.logger.Info("scan completed",
		"status", report.Status,
		"findings", report.FindingCount())
	return report
}

// stageReason asks the decider for the next experiment.
func (l *Loop) stageReason(ctx context.Context, report *scan.Report) decision.Recommendation {
	ctx, span := l.tracer.Start(ctx, "chaossec.reason")
	defer span.End()

	dctx := decision.BuildContext(l.store.Entries(), report.Findings)
	rec := l.decider.Decide(ctx, dctx)
	span.SetAttributes(
		attribute.String("decision.target", rec.TargetResource),
		attribute.String("decision.chaos_type", rec.ChaosType),
		attribute.Bool("decision.fallback", rec.IsFallback()),
	)
	return rec
}

// stageInject executes the recommended fault under the configured
// safety flag.
func (l *Loop) stageInject(ctx context.Context, rec decision.Recommendation) *cloud.ChaosResult {
	ctx, span := l.tracer.Start(ctx, "chaossec.inject")
	defer span.End()

	inj := &injector{provider: l.provider, logger: l.logger}
	chaos := inj.Inject(ctx, rec, l.cfg.SafetyMode)
	span.SetAttributes(
		attribute.Bool("inject.applied", chaos.Applied),
		attribute.String("inject.outcome", string(chaos.Outcome)),
	)
	return chaos
}

// stageMonitor collects the provider's signals for the target.
// Compliance records are mandatory; metric and audit failures degrade.
func (l *Loop) stageMonitor(ctx context.Context, target string, chaos *cloud.ChaosResult) (MonitorResult, error) {
	ctx, span := l.tracer.Start(ctx, "chaossec.monitor")
	defer span.End()

	records, err := l.provider.ComplianceRecords(ctx, storageResourceType, target)
	if err != nil {
		span.RecordError(err)
		return MonitorResult{}, fmt.Errorf("compliance records for %q: %w", target, err)
	}

	monitored := MonitorResult{Compliance: records}

	metrics, err := l.provider.Metrics(ctx, cloud.MetricQuery{
		Namespace:  "Storage",
		MetricName: "PublicAccessRequests",
		Dimensions: map[string]string{"resource": target},
		Period:     time.Minute,
		Statistic:  "Sum",
	})
	if err != nil {
		l.logger.Warn("metric fetch failed", "target", target, "error", err)
	} else {
		monitored.Metrics = metrics
	}

	events, err := l.provider.AuditEvents(ctx, target, maxAuditEvents)
	if err != nil {
		l.logger.Warn("audit event fetch failed", "target", target, "error", err)
	} else {
		monitored.AuditEvents = events
	}

	// Surface the injection operation's terminal state, including a
	// collaborator-reported timeout.
	if chaos != nil && chaos.OperationID != "" {
		status, err := l.provider.AwaitOperation(ctx, chaos.OperationID, cloud.DefaultOperationWait)
		if err != nil {
			l.logger.Warn("operation wait failed", "operation_id", chaos.OperationID, "error", err)
		} else {
			monitored.Operation = status
			if status.State == cloud.OperationTimeout {
				l.logger.Warn("injection operation timed out",
					"operation_id", chaos.OperationID, "reason", status.Reason)
			}
		}
	}

	span.SetAttributes(attribute.Int("monitor.compliance_records", len(records)))
	return monitored, nil
}

// stageValidate judges the controls' reaction to the fault.
func (l *Loop) stageValidate(ctx context.Context, records []cloud.ComplianceRecord) ValidationResult {
	_, span := l.tracer.Start(ctx, "chaossec.validate")
	defer span.End()

	validation := Validate(l.cfg.SafetyMode, records)
	span.SetAttributes(
		attribute.Bool("validate.test_passed", validation.TestPassed),
		attribute.String("validate.outcome", string(validation.Outcome)),
	)
	l.logger.Info("validation completed",
		"test_passed", validation.TestPassed,
		"outcome", validation.Outcome,
		"non_compliant_detected", validation.NonCompliantDetected)
	return validation
}

// stageReport packages the iteration as compliance evidence and uploads
// it. Sink failures are reported per package, never fatal.
func (l *Loop) stageReport(ctx context.Context, id string, ts time.Time, rec decision.Recommendation, chaos *cloud.ChaosResult, report *scan.Report, monitored MonitorResult, validation ValidationResult) ReportResult {
	ctx, span := l.tracer.Start(ctx, "chaossec.report")
	defer span.End()

	pkg := evidence.Build(evidence.Input{
		TestID:      id,
		Timestamp:   ts,
		Target:      rec.TargetResource,
		FaultType:   rec.ChaosType,
		Description: rec.ExpectedOutcome,
		TestPassed:  validation.TestPassed,
		Outcome:     string(validation.Outcome),
		SafetyMode:  l.cfg.SafetyMode,
		Artifacts: map[string]any{
			"scan_findings":      report.FindingCount(),
			"compliance_records": len(monitored.Compliance),
			"fault_applied":      chaos.Applied,
			"cloud_region":       l.cfg.Cloud.Region,
		},
	})
	if l.cfg.Cloud.Account != "" {
		pkg.Artifacts["cloud_account"] = l.cfg.Cloud.Account
	}

	reported := ReportResult{
		Evidence: pkg,
		Risk:     decision.EvaluateRisk(report.Findings, monitored.Compliance, l.store.Recent(5)),
	}

	for _, sink := range l.sinks {
		statuses, err := sink.Upload(ctx, []evidence.Package{pkg})
		if err != nil {
			span.RecordError(err)
			l.logger.Warn("evidence upload failed", "error", err)
			continue
		}
		reported.Uploads = append(reported.Uploads, statuses...)
	}

	span.SetAttributes(
		attribute.Int("report.risk_score", reported.Risk.Score),
		attribute.String("report.risk_level", string(reported.Risk.Level)),
	)
	return reported
}

// stageLearn records the iteration in the execution history. A failed
// history write is noted in the payload, not fatal.
func (l *Loop) stageLearn(ctx context.Context, id string, rec decision.Recommendation, chaos *cloud.ChaosResult, report *scan.Report, validation ValidationResult) LearnResult {
	_, span := l.tracer.Start(ctx, "chaossec.learn")
	defer span.End()

	entry := history.Entry{
		IterationID:   id,
		Timestamp:     l.now(),
		Target:        rec.TargetResource,
		FaultType:     rec.ChaosType,
		Outcome:       validation.Outcome,
		TestPassed:    validation.TestPassed,
		FindingsCount: report.FindingCount(),
	}
	if validation.Outcome == history.OutcomeFailure {
		entry.FailureType = failureTypeFor(chaos)
	}

	l.store.Append(entry)
	learned := LearnResult{Entry: entry, Persisted: true}
	if err := l.store.Persist(); err != nil {
		span.RecordError(err)
		l.logger.Error("history persist failed", "path", l.store.Path(), "error", err)
		learned.Persisted = false
		learned.PersistError = err.Error()
	}
	return learned
}

// failureTypeFor classifies a failed iteration for the history record.
func failureTypeFor(chaos *cloud.ChaosResult) string {
	switch {
	case chaos == nil:
		return "unknown"
	case chaos.Error != "":
		return "injection_error"
	case !chaos.Applied:
		return "not_applied"
	default:
		return "detection_gap"
	}
}

// sleepContext waits for the duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
