// Package evidence packages chaos test results as compliance evidence.
//
// Each executed experiment maps to controls in the supported frameworks
// (SOC 2, ISO 27001, NIST 800-53). A Package bundles the experiment,
// its outcome, and the mapped controls; a Sink uploads packages to an
// evidence store. Two sinks ship with the module: a local filesystem
// sink that writes date-partitioned JSON, and a Redis sink for feeding
// a downstream compliance pipeline.
package evidence
