package decision

import (
	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/history"
	"github.com/zero-day-ai/chaossec/scan"
)

// Risk score weights and level thresholds. The score is a weighted sum
// capped at 100: critical static findings weigh heaviest, then live
// compliance violations, then recent execution failures.
const (
	weightCriticalFinding = 10
	weightNonCompliant    = 5
	weightRecentFailure   = 3
	maxRiskScore          = 100
)

// RiskLevel classifies an aggregate risk score.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "HIGH"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskLow     RiskLevel = "LOW"
	RiskMinimal RiskLevel = "MINIMAL"
)

// riskAdvice maps each level to the report recommendation text.
var riskAdvice = map[RiskLevel]string{
	RiskHigh:    "Immediate remediation required before further chaos testing",
	RiskMedium:  "Schedule remediation of detected issues within the current sprint",
	RiskLow:     "Monitor detected issues and continue scheduled testing",
	RiskMinimal: "Security posture acceptable, continue routine testing",
}

// RiskAssessment is the aggregate risk picture for a run.
type RiskAssessment struct {
	// Score is the capped weighted sum.
	Score int `json:"score"`

	// Level classifies the score.
	Level RiskLevel `json:"level"`

	// CriticalFindings counts ERROR-severity static findings.
	CriticalFindings int `json:"critical_findings"`

	// NonCompliantResources counts live compliance violations.
	NonCompliantResources int `json:"non_compliant_resources"`

	// RecentFailures counts failed iterations in the assessed window.
	RecentFailures int `json:"recent_failures"`

	// Advice is the level's recommendation text.
	Advice string `json:"advice"`
}

// EvaluateRisk scores the combined static, live, and historical signals.
func EvaluateRisk(findings []scan.Finding, records []cloud.ComplianceRecord, recent []history.Entry) RiskAssessment {
	assessment := RiskAssessment{
		CriticalFindings: len(scan.FilterBySeverity(findings, scan.SeverityError)),
	}
	for _, r := range records {
		if r.IsNonCompliant() {
			assessment.NonCompliantResources++
		}
	}
	for _, e := range recent {
		if e.Outcome == history.OutcomeFailure {
			assessment.RecentFailures++
		}
	}

	score := assessment.CriticalFindings*weightCriticalFinding +
		assessment.NonCompliantResources*weightNonCompliant +
		assessment.RecentFailures*weightRecentFailure
	if score > maxRiskScore {
		score = maxRiskScore
	}
	assessment.Score = score
	assessment.Level = levelFor(score)
	assessment.Advice = riskAdvice[assessment.Level]
	return assessment
}

func levelFor(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	case score >= 20:
		return RiskLow
	default:
		return RiskMinimal
	}
}
