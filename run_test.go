package chaossec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/chaossec/cloud"
)

func TestRun_ExecutesRequestedIterations(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 3

	var slept []time.Duration
	loop, _ := newTestLoop(t, cfg,
		WithClock(nil, func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}))

	summary := loop.Run(context.Background())

	assert.Equal(t, RunCompleted, summary.Status)
	assert.True(t, summary.Status.IsTerminal())
	assert.Equal(t, 3, summary.Requested)
	require.Len(t, summary.Iterations, 3)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, "all clear", summary.Summary)

	// A fixed delay between iterations, none after the last.
	assert.Equal(t, []time.Duration{interIterationDelay, interIterationDelay}, slept)
}

func TestRun_SingleIterationHasNoDelay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 1

	var sleeps int
	loop, _ := newTestLoop(t, cfg,
		WithClock(nil, func(context.Context, time.Duration) error {
			sleeps++
			return nil
		}))

	summary := loop.Run(context.Background())
	assert.Equal(t, RunCompleted, summary.Status)
	assert.Zero(t, sleeps)
}

func TestRun_CancellationDuringDelay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 3

	loop, _ := newTestLoop(t, cfg,
		WithClock(nil, func(context.Context, time.Duration) error {
			return context.Canceled
		}))

	summary := loop.Run(context.Background())

	assert.Equal(t, RunErrored, summary.Status)
	assert.Contains(t, summary.Error, "run aborted")
	// The first iteration completed before the delay was interrupted.
	require.Len(t, summary.Iterations, 1)
	assert.Equal(t, 1, summary.Succeeded)
	// The degraded summary still carries the generated prose.
	assert.Equal(t, "all clear", summary.Summary)
}

func TestRun_CancelledContextBeforeStart(t *testing.T) {
	loop, _ := newTestLoop(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := loop.Run(ctx)
	assert.Equal(t, RunErrored, summary.Status)
	assert.Empty(t, summary.Iterations)
}

func TestRun_IterationErrorDoesNotStopRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Iterations = 2

	provider := &flakyProvider{SimProvider: cloud.NewSimProvider(nil), failFirst: true}
	loop, _ := newTestLoop(t, cfg, WithProvider(provider))

	summary := loop.Run(context.Background())

	assert.Equal(t, RunCompleted, summary.Status)
	require.Len(t, summary.Iterations, 2)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, IterationError, summary.Iterations[0].Status)
	assert.Equal(t, IterationSuccess, summary.Iterations[1].Status)
}

func TestRunStatus_IsTerminal(t *testing.T) {
	assert.False(t, RunPending.IsTerminal())
	assert.False(t, RunRunning.IsTerminal())
	assert.True(t, RunCompleted.IsTerminal())
	assert.True(t, RunErrored.IsTerminal())
}

// flakyProvider fails the monitor stage on the first iteration only.
type flakyProvider struct {
	*cloud.SimProvider
	failFirst bool
	calls     int
}

func (p *flakyProvider) ComplianceRecords(ctx context.Context, resourceType, resourceID string) ([]cloud.ComplianceRecord, error) {
	p.calls++
	if p.failFirst && p.calls == 1 {
		return nil, errors.New("transient compliance outage")
	}
	return p.SimProvider.ComplianceRecords(ctx, resourceType, resourceID)
}
