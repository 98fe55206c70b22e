package scan

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a scanner finding.
// The values mirror the scanner's own levels.
type Severity string

const (
	// SeverityError indicates a high-risk finding requiring attention.
	SeverityError Severity = "ERROR"

	// SeverityWarning indicates a moderate finding.
	SeverityWarning Severity = "WARNING"

	// SeverityInfo indicates an informational finding.
	SeverityInfo Severity = "INFO"
)

// severityRanks orders severity levels for filtering. Higher is more severe.
var severityRanks = map[Severity]int{
	SeverityError:   3,
	SeverityWarning: 2,
	SeverityInfo:    1,
}

// IsValid returns true if the severity level is valid.
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank returns the numeric rank of the severity level.
// Unknown severities rank as SeverityInfo.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return severityRanks[SeverityInfo]
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity value, case-insensitively.
// Returns an error if the string is not a valid severity level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(strings.ToUpper(s))
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// AllSeverities returns all valid severity levels from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityError, SeverityWarning, SeverityInfo}
}
