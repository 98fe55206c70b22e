// Package scan integrates the external static-analysis scanner (semgrep)
// into the chaos loop.
//
// The scanner runs as a subprocess with a fixed timeout and emits JSON,
// which this package parses into Finding values with a severity breakdown.
// A non-zero exit status that merely signals "findings present" is not an
// error; a timeout is surfaced as a distinct report status so callers can
// tell it apart from a scanner failure.
//
// The package also supports composing rulesets for infrastructure-as-code
// scans, filtering findings by minimum severity, and emitting custom rule
// files in the scanner's YAML format.
package scan
