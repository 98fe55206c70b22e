package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimedOut reports that a command exceeded its time budget.
var ErrTimedOut = errors.New("scan: command timed out")

// runConfig holds the configuration for a scanner subprocess.
type runConfig struct {
	// Command is the name or path of the binary to execute.
	Command string

	// Args are the command-line arguments.
	Args []string

	// WorkDir is the working directory for the command.
	WorkDir string

	// Timeout is the maximum execution duration. Zero means no timeout.
	Timeout time.Duration
}

// runResult holds the captured output of a subprocess.
type runResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// runCommand executes a subprocess, capturing stdout and stderr.
//
// A non-zero exit code is not treated as an error; the result is returned
// with the exit code populated and the caller decides how to interpret it
// (the scanner exits 1 when findings are present). A timeout returns
// ErrTimedOut; other execution failures (binary not found, permission
// denied) return a wrapped error.
func runCommand(ctx context.Context, cfg runConfig) (*runResult, error) {
	if cfg.Command == "" {
		return nil, errors.New("scan: command is required")
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	if cfg.WorkDir != "" {
		cmd.Dir = cfg.WorkDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &runResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("%w after %v", ErrTimedOut, cfg.Timeout)
		}
		if ctx.Err() == context.Canceled {
			return result, fmt.Errorf("scan: command cancelled")
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		return result, fmt.Errorf("scan: command execution failed: %w", err)
	}

	return result, nil
}

// BinaryExists checks if a binary exists in the system PATH.
func BinaryExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
