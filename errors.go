package chaossec

import (
	"errors"
	"fmt"
)

// Sentinel errors for common loop failure conditions. They can be
// matched with errors.Is().
var (
	// ErrInvalidConfig indicates the loop was constructed with missing
	// or inconsistent collaborators.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStageFailed indicates a pipeline stage failed in a way that
	// ends the iteration.
	ErrStageFailed = errors.New("stage failed")

	// ErrRunAborted indicates the run stopped before completing all
	// requested iterations.
	ErrRunAborted = errors.New("run aborted")
)

// Error kinds categorize loop errors.
const (
	// KindConfiguration represents errors in loop setup.
	KindConfiguration = "configuration"

	// KindScan represents static-scan failures.
	KindScan = "scan"

	// KindDecision represents decision-stage failures.
	KindDecision = "decision"

	// KindInjection represents fault-injection failures.
	KindInjection = "injection"

	// KindMonitoring represents provider signal-collection failures.
	KindMonitoring = "monitoring"

	// KindPersistence represents history and evidence storage failures.
	KindPersistence = "persistence"

	// KindInternal represents unexpected internal failures.
	KindInternal = "internal"
)

// Error is a structured error carrying the failed operation and its
// category. It supports errors.Is() and errors.As() through Unwrap.
type Error struct {
	// Op is the operation that failed (e.g., "Loop.RunIteration").
	Op string

	// Kind categorizes the error.
	Kind string

	// Err is the underlying error.
	Err error

	// Context provides additional detail (iteration id, target, etc.).
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("chaossec: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("chaossec: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("chaossec: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds a structured error for an operation.
func newError(op, kind string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
