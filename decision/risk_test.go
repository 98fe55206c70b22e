package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/scan"
)

func TestEvaluateRisk_Weights(t *testing.T) {
	findings := []scan.Finding{
		{Severity: scan.SeverityError},
		{Severity: scan.SeverityError},
		{Severity: scan.SeverityWarning},
	}
	records := []cloud.ComplianceRecord{
		{ComplianceType: cloud.NonCompliant},
		{ComplianceType: cloud.Compliant},
	}
	recent := []history.Entry{
		{Outcome: history.OutcomeFailure},
		{Outcome: history.OutcomeSuccess},
	}

	a := EvaluateRisk(findings, records, recent)

	assert.Equal(t, 2, a.CriticalFindings)
	assert.Equal(t, 1, a.NonCompliantResources)
	assert.Equal(t, 1, a.RecentFailures)
	// 2*10 + 1*5 + 1*3
	assert.Equal(t, 28, a.Score)
	assert.Equal(t, RiskLow, a.Level)
	assert.NotEmpty(t, a.Advice)
}

func TestEvaluateRisk_CappedAtHundred(t *testing.T) {
	findings := make([]scan.Finding, 20)
	for i := range findings {
		findings[i] = scan.Finding{Severity: scan.SeverityError}
	}

	a := EvaluateRisk(findings, nil, nil)
	assert.Equal(t, maxRiskScore, a.Score)
	assert.Equal(t, RiskHigh, a.Level)
}

func TestEvaluateRisk_Levels(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{score: 100, want: RiskHigh},
		{score: 70, want: RiskHigh},
		{score: 69, want: RiskMedium},
		{score: 40, want: RiskMedium},
		{score: 39, want: RiskLow},
		{score: 20, want: RiskLow},
		{score: 19, want: RiskMinimal},
		{score: 0, want: RiskMinimal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.score), "score %d", tt.score)
	}
}

func TestEvaluateRisk_Empty(t *testing.T) {
	a := EvaluateRisk(nil, nil, nil)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, RiskMinimal, a.Level)
}
