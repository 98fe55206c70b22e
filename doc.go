// Package chaossec runs the chaos and compliance loop.
//
// A run executes a fixed number of iterations. Each iteration walks a
// fixed stage pipeline: simulate the infrastructure into a digital twin,
// scan the project for static findings, ask the decision brain for the
// next experiment, inject the fault (simulated under safety mode),
// monitor the provider's signals, validate whether the security controls
// reacted, package the results as compliance evidence, and record the
// iteration in the execution history.
//
// The loop is built to degrade rather than abort: a failed model call
// falls back to a deterministic recommendation, an unrecognized fault
// type records a no-op injection, and an iteration that fails mid-way
// still reports the stages it completed.
package chaossec
