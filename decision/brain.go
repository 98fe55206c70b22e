package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zero-day-ai/chaossec/llm"
	"github.com/zero-day-ai/chaossec/scan"
)

// maxPromptFindings bounds how many findings are quoted in the prompt.
const maxPromptFindings = 3

// summaryMaxTokens bounds the run-summary response. Summaries are prose,
// not structured output, so they get a smaller budget than decisions.
const summaryMaxTokens = 500

// systemPrompt frames every decision request.
const systemPrompt = "You are a chaos engineering expert specializing in cloud " +
	"security and compliance testing. You design controlled experiments that " +
	"verify security controls detect misconfigurations. Respond ONLY with a " +
	"single JSON object, no markdown, no prose."

// Brain drives the decision step. It owns the model boundary and the
// degradation policy around it.
type Brain struct {
	client llm.Client
	logger *slog.Logger
}

// BrainOption configures a Brain.
type BrainOption func(*Brain)

// WithLogger sets the Brain's logger.
func WithLogger(logger *slog.Logger) BrainOption {
	return func(b *Brain) {
		b.logger = logger
	}
}

// NewBrain returns a Brain backed by the given model client.
func NewBrain(client llm.Client, opts ...BrainOption) *Brain {
	b := &Brain{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Decide asks the model for the next experiment. It never returns an
// error: a failed call degrades to CallFallback and unusable output
// degrades inside Normalize.
func (b *Brain) Decide(ctx context.Context, dctx Context) Recommendation {
	req := llm.NewCompletionRequest([]llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		llm.UserMessage(buildDecisionPrompt(dctx)),
	})

	resp, err := b.client.Complete(ctx, *req)
	if err != nil {
		b.logger.Warn("model call failed, using fallback recommendation",
			"error", err)
		return CallFallback()
	}

	rec := Normalize(resp.Content)
	if rec.Err != "" {
		b.logger.Warn("model output was not valid JSON, using parse fallback",
			"parse_error", rec.Err)
	} else {
		b.logger.Info("decision received",
			"target", rec.TargetResource,
			"chaos_type", rec.ChaosType,
			"control", rec.ComplianceControl)
	}
	return rec
}

// Summarize produces a short prose summary of a run's results for the
// report. results must be JSON-marshalable. A failed call or marshal
// degrades to a fixed local summary line.
func (b *Brain) Summarize(ctx context.Context, results any) string {
	const fallback = "Automated summary unavailable; see structured results."

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Summarize the following chaos and compliance test results in 3-4 "+
			"sentences for a security report. Focus on control effectiveness "+
			"and detected gaps.\n\n%s", payload)

	req := llm.NewCompletionRequest(
		[]llm.Message{llm.UserMessage(prompt)},
		llm.WithMaxTokens(summaryMaxTokens),
	)

	resp, err := b.client.Complete(ctx, *req)
	if err != nil || !resp.HasContent() {
		b.logger.Warn("summary generation failed, using fixed text", "error", err)
		return fallback
	}
	return strings.TrimSpace(resp.Content)
}

// buildDecisionPrompt renders the decision context into the user prompt.
func buildDecisionPrompt(dctx Context) string {
	var sb strings.Builder

	a := dctx.HistoryAnalysis
	fmt.Fprintf(&sb, "Execution history: %d tests, %d successful, %d failed (success rate %.2f).\n",
		a.TotalTests, a.SuccessfulTests, a.FailedTests, a.SuccessRate)

	if len(a.CommonFailures) > 0 {
		sb.WriteString("Common failure types:\n")
		for _, fc := range a.CommonFailures {
			fmt.Fprintf(&sb, "- %s: %d occurrences\n", fc.Type, fc.Count)
		}
	}

	if len(dctx.PreviousTests) > 0 {
		sb.WriteString("\nRecent tests:\n")
		for _, e := range dctx.PreviousTests {
			fmt.Fprintf(&sb, "- %s: %s → %s\n", e.Target, e.FaultType, e.Outcome)
		}
	}

	high := scan.FilterBySeverity(dctx.Findings, scan.SeverityError)
	if len(high) > maxPromptFindings {
		high = high[:maxPromptFindings]
	}
	if len(high) > 0 {
		sb.WriteString("\nHigh-severity static findings:\n")
		for _, f := range high {
			fmt.Fprintf(&sb, "- [%s] %s (%s:%d)\n", f.RuleID, f.Message, f.File, f.Line)
		}
	}

	sb.WriteString("\nRecommend the next chaos experiment. Respond with a JSON object " +
		"containing exactly these fields: target_resource, chaos_type, " +
		"expected_outcome, validation_criteria, compliance_control, reasoning.")

	return sb.String()
}
