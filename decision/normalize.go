package decision

import (
	"encoding/json"
	"strings"
)

// Defaults for the degraded recommendation paths. The parse fallback
// targets a generic bucket name; the call-level fallback targets the
// dedicated test bucket so a degraded loop still exercises a safe
// resource.
const (
	parseFallbackTarget = "s3-bucket-default"
	callFallbackTarget  = "s3-chaossec-test-bucket"
	fallbackChaosType   = "make_storage_public"
)

// Normalize converts raw model output into a complete Recommendation.
// It never fails: fenced output is unwrapped, missing required fields
// are filled with a placeholder, and unparseable output yields a
// deterministic fallback carrying the parse error text.
func Normalize(raw string) Recommendation {
	text := strings.TrimSpace(raw)
	text = stripFence(text)

	var rec Recommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return parseFallback(err)
	}

	rec.fillDefaults()
	return rec
}

// stripFence removes a surrounding markdown code fence. Only the first
// and last lines are dropped, and only when the text starts with a fence
// marker and spans more than two lines; a language tag on the opening
// fence is removed with it.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= 2 {
		return text
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// parseFallback is the recommendation used when model output is not JSON.
func parseFallback(err error) Recommendation {
	return Recommendation{
		TargetResource:     parseFallbackTarget,
		ChaosType:          fallbackChaosType,
		ExpectedOutcome:    "Detection by security controls",
		ValidationCriteria: "Compliance check flags the resource",
		ComplianceControl:  "SOC2:CC6.6",
		Reasoning:          "Fallback due to parse error",
		Err:                err.Error(),
	}
}

// CallFallback is the recommendation used when the model call itself
// fails. It targets the dedicated test bucket and is marked as a
// fallback so the report step can surface the degradation.
func CallFallback() Recommendation {
	return Recommendation{
		TargetResource:     callFallbackTarget,
		ChaosType:          fallbackChaosType,
		ExpectedOutcome:    "Compliance monitoring detects the public bucket",
		ValidationCriteria: "Compliance rule flags the bucket as NON_COMPLIANT",
		ComplianceControl:  "SOC2:CC6.1",
		Reasoning:          "Fallback recommendation due to model unavailability",
		Fallback:           true,
	}
}
