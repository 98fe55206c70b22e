package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_EmptyHistory(t *testing.T) {
	analysis := Analyze(nil)

	assert.Equal(t, 0, analysis.TotalTests)
	assert.Equal(t, 0.0, analysis.SuccessRate)
	assert.Empty(t, analysis.CommonFailures)
	require.NotEmpty(t, analysis.Recommendations)
	assert.NotEmpty(t, analysis.Recommendations[0])
	assert.Nil(t, analysis.MostRecent)
}

func TestAnalyze_MixedOutcomes(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeSuccess},
		{Outcome: OutcomeFailure, FailureType: "timeout"},
		{Outcome: OutcomeSuccess},
	}

	analysis := Analyze(entries)

	assert.Equal(t, 3, analysis.TotalTests)
	assert.Equal(t, 2, analysis.SuccessfulTests)
	assert.Equal(t, 1, analysis.FailedTests)
	assert.InDelta(t, 0.667, analysis.SuccessRate, 0.001)
	require.Len(t, analysis.CommonFailures, 1)
	assert.Equal(t, FailureCount{Type: "timeout", Count: 1}, analysis.CommonFailures[0])
}

func TestAnalyze_SuccessRateExact(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeSuccess},
		{Outcome: OutcomeFailure},
		{Outcome: OutcomeSuccess},
		{Outcome: OutcomeSuccess},
	}

	analysis := Analyze(entries)
	assert.Equal(t, 3.0/4.0, analysis.SuccessRate)
}

func TestAnalyze_SimulatedOutcomesNotCountedAsSuccess(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeSuccessSimulated},
		{Outcome: OutcomeSuccessSimulated},
	}

	analysis := Analyze(entries)
	assert.Equal(t, 2, analysis.TotalTests)
	assert.Equal(t, 0, analysis.SuccessfulTests)
	assert.Equal(t, 0, analysis.FailedTests)
	assert.Equal(t, 0.0, analysis.SuccessRate)
}

func TestAnalyze_TopThreeFailures(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeFailure, FailureType: "timeout"},
		{Outcome: OutcomeFailure, FailureType: "permission"},
		{Outcome: OutcomeFailure, FailureType: "permission"},
		{Outcome: OutcomeFailure, FailureType: "network"},
		{Outcome: OutcomeFailure, FailureType: "network"},
		{Outcome: OutcomeFailure, FailureType: "network"},
		{Outcome: OutcomeFailure, FailureType: "quota"},
	}

	analysis := Analyze(entries)

	require.Len(t, analysis.CommonFailures, 3)
	assert.Equal(t, "network", analysis.CommonFailures[0].Type)
	assert.Equal(t, 3, analysis.CommonFailures[0].Count)
	assert.Equal(t, "permission", analysis.CommonFailures[1].Type)
	assert.Equal(t, "timeout", analysis.CommonFailures[2].Type)
}

func TestAnalyze_TieBreakByFirstSeen(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeFailure, FailureType: "zeta"},
		{Outcome: OutcomeFailure, FailureType: "alpha"},
	}

	analysis := Analyze(entries)

	require.Len(t, analysis.CommonFailures, 2)
	assert.Equal(t, "zeta", analysis.CommonFailures[0].Type)
	assert.Equal(t, "alpha", analysis.CommonFailures[1].Type)
}

func TestAnalyze_UnknownFailureType(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeFailure},
	}

	analysis := Analyze(entries)
	require.Len(t, analysis.CommonFailures, 1)
	assert.Equal(t, "unknown", analysis.CommonFailures[0].Type)
}

func TestAnalyze_Deterministic(t *testing.T) {
	entries := []Entry{
		{Outcome: OutcomeFailure, FailureType: "a"},
		{Outcome: OutcomeFailure, FailureType: "b"},
		{Outcome: OutcomeSuccess},
	}

	first := Analyze(entries)
	second := Analyze(entries)
	assert.Equal(t, first, second)
}
