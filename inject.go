package chaossec

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zero-day-ai/chaossec/cloud"
	"github.com/zero-day-ai/chaossec/decision"
)

// injector dispatches a recommendation to the provider action that can
// realize it. Injection never ends an iteration: unknown fault types and
// provider failures both degrade to a no-op result.
type injector struct {
	provider cloud.Provider
	logger   *slog.Logger
}

// Inject executes the recommended fault under the given safety flag.
func (inj *injector) Inject(ctx context.Context, rec decision.Recommendation, safetyMode bool) *cloud.ChaosResult {
	fault := strings.ToLower(rec.ChaosType)

	// Public-access faults are the only ones with a concrete provider
	// action today; everything else records a no-op.
	if strings.Contains(fault, "public") || strings.Contains(fault, "s3") || strings.Contains(fault, "storage") {
		result, err := inj.provider.MakeResourcePublic(ctx, rec.TargetResource, safetyMode)
		if err != nil {
			inj.logger.Error("fault injection failed",
				"target", rec.TargetResource,
				"chaos_type", rec.ChaosType,
				"error", err)
			if result == nil {
				result = &cloud.ChaosResult{
					Target:     rec.TargetResource,
					SafetyMode: safetyMode,
					Outcome:    cloud.ChaosFailed,
					Error:      err.Error(),
				}
			}
		}
		result.FaultType = rec.ChaosType
		result.Reasoning = rec.Reasoning
		return result
	}

	inj.logger.Warn("no injection implemented for fault type, recording no-op",
		"chaos_type", rec.ChaosType,
		"target", rec.TargetResource)
	return &cloud.ChaosResult{
		Target:     rec.TargetResource,
		FaultType:  rec.ChaosType,
		SafetyMode: safetyMode,
		Applied:    false,
		Outcome:    cloud.ChaosSimulated,
		Note:       "fault type not supported, no action taken",
		Reasoning:  rec.Reasoning,
	}
}
