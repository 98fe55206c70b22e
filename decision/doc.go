// Package decision turns execution history and scan findings into the
// next chaos experiment.
//
// The Brain builds a decision context from the history analysis and the
// highest-severity static findings, asks the model boundary for a
// recommendation, and normalizes whatever comes back into a complete
// Recommendation. The normalization path is total: fenced output is
// unwrapped, missing fields are filled with placeholders, and both
// unparseable output and a failed model call degrade to deterministic
// fallback recommendations instead of errors.
package decision
