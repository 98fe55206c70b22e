package chaossec

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/decision"
	"github.com/zero-day-ai/chaossec/evidence"
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/scan"
	"github.com/zero-day-ai/chaossec/twin"
)

// Scanner is the static-analysis collaborator.
type Scanner interface {
	// ScanSelf scans the project's own code and infrastructure files.
	ScanSelf(ctx context.Context, projectRoot string) *scan.Report
}

// Decider is the decision-stage collaborator.
type Decider interface {
	// Decide chooses the next experiment. It must not fail; degraded
	// output is a fallback recommendation.
	Decide(ctx context.Context, dctx decision.Context) decision.Recommendation

	// Summarize produces report prose for a run's results.
	Summarize(ctx context.Context, results any) string
}

// TwinMirror is the digital-twin collaborator.
type TwinMirror interface {
	// CreateTwin mirrors resources into a twin workspace.
	CreateTwin(ctx context.Context, workspace string, resources []twin.ResourceDescriptor) (*twin.Twin, error)
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for per-stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(l *Loop) {
		l.tracer = tracer
	}
}

// WithScanner replaces the static scanner.
func WithScanner(s Scanner) Option {
	return func(l *Loop) {
		l.scanner = s
	}
}

// WithDecider sets the decision collaborator. Required.
func WithDecider(d Decider) Option {
	return func(l *Loop) {
		l.decider = d
	}
}

// WithProvider replaces the cloud provider.
func WithProvider(p cloud.Provider) Option {
	return func(l *Loop) {
		l.provider = p
	}
}

// WithTwinMirror sets the digital-twin client. When unset the simulate
// stage is skipped.
func WithTwinMirror(m TwinMirror) Option {
	return func(l *Loop) {
		l.twin = m
	}
}

// WithSinks replaces the evidence sinks.
func WithSinks(sinks ...evidence.Sink) Option {
	return func(l *Loop) {
		l.sinks = sinks
	}
}

// WithStore replaces the history store.
func WithStore(store *history.Store) Option {
	return func(l *Loop) {
		l.store = store
	}
}

// WithClock replaces the loop's time source and sleeper. Tests use this
// to skip the inter-iteration delay.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// WithIDGenerator replaces the iteration id generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Loop) {
		l.newID = gen
	}
}
