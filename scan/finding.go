package scan

// Finding represents a single scanner result.
type Finding struct {
	// RuleID identifies the rule that produced the finding.
	RuleID string `json:"rule_id"`

	// Severity is the scanner-reported severity level.
	Severity Severity `json:"severity"`

	// Message describes the issue.
	Message string `json:"message"`

	// File is the path of the file containing the match.
	File string `json:"file"`

	// Line is the starting line of the match.
	Line int `json:"line"`

	// Code is the matched source snippet, when available.
	Code string `json:"code,omitempty"`

	// Fix is the scanner-suggested fix, when available.
	Fix string `json:"fix,omitempty"`

	// Metadata carries rule metadata (references, OWASP/CWE tags, etc.).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Status describes the outcome of a scan invocation.
type Status string

const (
	// StatusSuccess indicates the scanner ran and its output was parsed.
	// Findings being present still counts as success.
	StatusSuccess Status = "success"

	// StatusError indicates the scanner failed to run or exited abnormally.
	StatusError Status = "error"

	// StatusTimeout indicates the scan exceeded the fixed time budget.
	StatusTimeout Status = "timeout"

	// StatusParseError indicates the scanner ran but emitted unparseable output.
	StatusParseError Status = "parse_error"
)

// IsValid checks if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusTimeout, StatusParseError:
		return true
	default:
		return false
	}
}

// Report is the structured result of one or more scan invocations.
type Report struct {
	// Status is the overall scan outcome.
	Status Status `json:"status"`

	// Findings are the parsed scanner results.
	Findings []Finding `json:"findings"`

	// SeverityBreakdown counts findings per severity level.
	SeverityBreakdown map[Severity]int `json:"severity_breakdown"`

	// ScannedPath is the directory that was scanned.
	ScannedPath string `json:"scanned_path,omitempty"`

	// Error carries the failure text for non-success statuses.
	Error string `json:"error,omitempty"`
}

// FindingCount returns the number of findings in the report.
func (r *Report) FindingCount() int {
	return len(r.Findings)
}

// FilterBySeverity returns the findings at or above the given minimum
// severity. Findings with unknown severities rank as INFO.
func FilterBySeverity(findings []Finding, min Severity) []Finding {
	minRank := min.Rank()
	var out []Finding
	for _, f := range findings {
		if f.Severity.Rank() >= minRank {
			out = append(out, f)
		}
	}
	return out
}

// HighRisk returns only the ERROR-level findings from the report.
func (r *Report) HighRisk() []Finding {
	return FilterBySeverity(r.Findings, SeverityError)
}

// breakdown tallies findings per severity, counting every defined level
// even when zero.
func breakdown(findings []Finding) map[Severity]int {
	counts := map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityInfo:    0,
	}
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

// mergeBreakdowns sums two severity tallies.
func mergeBreakdowns(dst, src map[Severity]int) {
	for sev, n := range src {
		dst[sev] += n
	}
}
