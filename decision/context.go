package decision

import (
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/scan"
)

// recentWindow is how many prior iterations the decision context carries.
const recentWindow = 5

// Context is everything the decision step knows when choosing the next
// experiment.
type Context struct {
	// HistoryAnalysis summarizes all prior iterations.
	HistoryAnalysis history.Analysis `json:"history_analysis"`

	// Findings are the static-scan results from the current iteration.
	Findings []scan.Finding `json:"findings"`

	// PreviousTests are the most recent iterations, oldest first.
	PreviousTests []history.Entry `json:"previous_tests"`
}

// BuildContext assembles a decision context from the full history and
// the current scan findings.
func BuildContext(entries []history.Entry, findings []scan.Finding) Context {
	recent := entries
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	return Context{
		HistoryAnalysis: history.Analyze(entries),
		Findings:        findings,
		PreviousTests:   append([]history.Entry(nil), recent...),
	}
}
