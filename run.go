package chaossec

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// interIterationDelay is the fixed pause between iterations. The last
// iteration is not followed by a delay.
const interIterationDelay = 5 * time.Second

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	// RunPending indicates the run has not started.
	RunPending RunStatus = "pending"

	// RunRunning indicates iterations are executing.
	RunRunning RunStatus = "running"

	// RunCompleted indicates all requested iterations executed.
	RunCompleted RunStatus = "completed"

	// RunErrored indicates the run stopped early.
	RunErrored RunStatus = "errored"
)

// IsTerminal reports whether the status is final.
func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunErrored
}

// RunSummary is the aggregate record of one run.
type RunSummary struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Status is the run's lifecycle state.
	Status RunStatus `json:"status"`

	// SafetyMode records the flag the run executed under.
	SafetyMode bool `json:"safety_mode"`

	// StartedAt is when the first iteration began.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the run reached a terminal status.
	CompletedAt time.Time `json:"completed_at"`

	// Requested is the number of iterations asked for.
	Requested int `json:"requested"`

	// Iterations are the per-iteration results, in execution order. A
	// run that stops early holds the iterations that ran.
	Iterations []*IterationResult `json:"iterations"`

	// Succeeded counts iterations with status success.
	Succeeded int `json:"succeeded"`

	// Failed counts iterations with status error.
	Failed int `json:"failed"`

	// Summary is report prose generated from the results.
	Summary string `json:"summary,omitempty"`

	// Error carries the abort reason when Status is errored.
	Error string `json:"error,omitempty"`
}

// Run executes the configured number of iterations with a fixed delay
// between them and returns the aggregate summary. An iteration failing
// does not stop the run; cancellation of ctx does, yielding an errored
// summary covering the iterations that ran.
func (l *Loop) Run(ctx context.Context) *RunSummary {
	summary := &RunSummary{
		RunID:      "run-" + uuid.NewString(),
		Status:     RunPending,
		SafetyMode: l.cfg.SafetyMode,
		StartedAt:  l.now(),
		Requested:  l.cfg.Iterations,
	}

	// An escaping failure must still produce a terminal summary
	// covering the completed iterations.
	defer func() {
		if r := recover(); r != nil {
			summary.Status = RunErrored
			summary.Error = fmt.Sprintf("%v", r)
			l.finish(ctx, summary)
			l.logger.Error("run stopped by unexpected failure",
				"run_id", summary.RunID, "error", summary.Error)
		}
	}()

	summary.Status = RunRunning
	l.logger.Info("run started",
		"run_id", summary.RunID,
		"iterations", summary.Requested,
		"safety_mode", l.cfg.SafetyMode)

	for i := 0; i < summary.Requested; i++ {
		if err := ctx.Err(); err != nil {
			summary.Status = RunErrored
			summary.Error = fmt.Errorf("%w: %v", ErrRunAborted, err).Error()
			l.finish(ctx, summary)
			return summary
		}

		result := l.RunIteration(ctx)
		summary.Iterations = append(summary.Iterations, result)

		if i < summary.Requested-1 {
			if err := l.sleep(ctx, interIterationDelay); err != nil {
				summary.Status = RunErrored
				summary.Error = fmt.Errorf("%w: %v", ErrRunAborted, err).Error()
				l.finish(ctx, summary)
				return summary
			}
		}
	}

	summary.Status = RunCompleted
	l.finish(ctx, summary)
	l.logger.Info("run completed",
		"run_id", summary.RunID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return summary
}

// finish tallies the iteration outcomes, stamps the completion time,
// and attaches the generated report summary.
func (l *Loop) finish(ctx context.Context, summary *RunSummary) {
	for _, it := range summary.Iterations {
		if it.Status == IterationSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.CompletedAt = l.now()

	summary.Summary = l.decider.Summarize(ctx, struct {
		Requested int       `json:"requested"`
		Executed  int       `json:"executed"`
		Succeeded int       `json:"succeeded"`
		Failed    int       `json:"failed"`
		Status    RunStatus `json:"status"`
	}{
		Requested: summary.Requested,
		Executed:  len(summary.Iterations),
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Status:    summary.Status,
	})
}
