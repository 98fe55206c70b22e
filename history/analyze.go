package history

import "sort"

// maxCommonFailures bounds the failure-type ranking in an Analysis.
const maxCommonFailures = 3

// failureTypeUnknown labels failures recorded without a failure type.
const failureTypeUnknown = "unknown"

// emptyHistoryAdvice is the placeholder recommendation for a fresh store.
const emptyHistoryAdvice = "No historical data available - start with basic storage access tests"

// FailureCount pairs a failure type with its occurrence count.
type FailureCount struct {
	// Type is the failure category.
	Type string `json:"type"`

	// Count is how many failures of this type were recorded.
	Count int `json:"count"`
}

// Analysis summarizes the execution history for the decision step.
type Analysis struct {
	// TotalTests is the number of recorded iterations.
	TotalTests int `json:"total_tests"`

	// SuccessfulTests counts entries with outcome success.
	SuccessfulTests int `json:"successful_tests"`

	// FailedTests counts entries with outcome failure.
	FailedTests int `json:"failed_tests"`

	// SuccessRate is SuccessfulTests / TotalTests, 0 when the history
	// is empty.
	SuccessRate float64 `json:"success_rate"`

	// CommonFailures ranks at most three failure types by count,
	// descending, ties broken by first appearance in the history.
	CommonFailures []FailureCount `json:"common_failures"`

	// Recommendations carries advisory text; never empty for an empty
	// history.
	Recommendations []string `json:"recommendations,omitempty"`

	// MostRecent is the last recorded entry, nil for an empty history.
	MostRecent *Entry `json:"most_recent,omitempty"`
}

// Analyze computes an Analysis from the given entries. It is a pure
// function of its input: identical histories produce identical analyses,
// and an empty history yields zero counts rather than an error.
func Analyze(entries []Entry) Analysis {
	if len(entries) == 0 {
		return Analysis{
			SuccessRate:     0.0,
			CommonFailures:  []FailureCount{},
			Recommendations: []string{emptyHistoryAdvice},
		}
	}

	analysis := Analysis{
		TotalTests:     len(entries),
		CommonFailures: []FailureCount{},
	}

	counts := make(map[string]int)
	var firstSeen []string
	for _, e := range entries {
		switch e.Outcome {
		case OutcomeSuccess:
			analysis.SuccessfulTests++
		case OutcomeFailure:
			analysis.FailedTests++
			ft := e.FailureType
			if ft == "" {
				ft = failureTypeUnknown
			}
			if _, seen := counts[ft]; !seen {
				firstSeen = append(firstSeen, ft)
			}
			counts[ft]++
		}
	}

	analysis.SuccessRate = float64(analysis.SuccessfulTests) / float64(analysis.TotalTests)

	// Rank failure types by count descending. sort.SliceStable keeps the
	// first-seen order for equal counts.
	ranked := make([]string, len(firstSeen))
	copy(ranked, firstSeen)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > maxCommonFailures {
		ranked = ranked[:maxCommonFailures]
	}
	for _, ft := range ranked {
		analysis.CommonFailures = append(analysis.CommonFailures, FailureCount{
			Type:  ft,
			Count: counts[ft],
		})
	}

	last := entries[len(entries)-1]
	analysis.MostRecent = &last

	return analysis
}
