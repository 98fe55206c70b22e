// Package history records the outcome of past chaos iterations and
// analyzes them to inform future fault selection.
//
// Entries are append-only and time-ordered: insertion order is
// chronological order, and an entry is never mutated after it is
// appended. The store rewrites the whole history as a single JSON array
// on every persist; a persistence failure is reported but must never
// abort the loop, so the in-memory history stays authoritative for the
// remainder of the process.
package history
