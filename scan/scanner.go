package scan

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default rulesets. These are registry names understood by the scanner.
const (
	// RulesetSecurityAudit is the default ruleset for repository scans.
	RulesetSecurityAudit = "p/security-audit"

	// RulesetGo targets the project's own source code.
	RulesetGo = "p/golang"

	// RulesetTerraform targets Terraform infrastructure definitions.
	RulesetTerraform = "p/terraform"

	// RulesetCloudFormation targets CloudFormation templates.
	RulesetCloudFormation = "p/cloudformation"

	// RulesetKubernetes targets Kubernetes manifests.
	RulesetKubernetes = "p/kubernetes"
)

// ScanTimeout is the fixed time budget for a single scanner invocation.
const ScanTimeout = 5 * time.Minute

// semgrepBinary is the scanner executable invoked for every scan.
const semgrepBinary = "semgrep"

// Scanner invokes the static-analysis scanner and parses its output.
type Scanner struct {
	logger  *slog.Logger
	timeout time.Duration

	// run is swapped out in tests to avoid spawning the real binary.
	run func(ctx context.Context, cfg runConfig) (*runResult, error)
}

// NewScanner creates a scanner with the fixed default timeout.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		logger:  logger,
		timeout: ScanTimeout,
		run:     runCommand,
	}
}

// ScanRepository scans a directory with the given ruleset. An empty
// ruleset falls back to RulesetSecurityAudit.
//
// The scanner exiting with code 1 means findings were present and is not
// an error. Timeouts and execution failures produce a Report with the
// corresponding non-success status instead of returning an error; the
// loop degrades rather than aborts on scanner trouble.
func (s *Scanner) ScanRepository(ctx context.Context, repoPath, ruleset string) *Report {
	if ruleset == "" {
		ruleset = RulesetSecurityAudit
	}

	s.logger.Info("starting scan",
		"path", repoPath,
		"ruleset", ruleset)

	result, err := s.run(ctx, runConfig{
		Command: semgrepBinary,
		Args:    []string{"scan", "--json", "--quiet", "--config", ruleset, repoPath},
		Timeout: s.timeout,
	})
	if err != nil {
		status := StatusError
		if strings.Contains(err.Error(), ErrTimedOut.Error()) {
			status = StatusTimeout
		}
		s.logger.Error("scan failed", "path", repoPath, "error", err)
		return &Report{
			Status:            status,
			Error:             err.Error(),
			SeverityBreakdown: breakdown(nil),
			ScannedPath:       repoPath,
		}
	}

	// Exit code 0 = clean, 1 = findings present. Anything else is a
	// scanner failure.
	if result.ExitCode != 0 && result.ExitCode != 1 {
		s.logger.Error("scanner exited abnormally",
			"path", repoPath,
			"exit_code", result.ExitCode,
			"stderr", string(result.Stderr))
		return &Report{
			Status:            StatusError,
			Error:             string(result.Stderr),
			SeverityBreakdown: breakdown(nil),
			ScannedPath:       repoPath,
		}
	}

	report := ParseOutput(result.Stdout)
	report.ScannedPath = repoPath

	s.logger.Info("scan completed",
		"path", repoPath,
		"findings", report.FindingCount(),
		"status", report.Status)

	return report
}

// ScanIaC scans an infrastructure-as-code directory with the Terraform,
// CloudFormation, and Kubernetes rulesets, merging the results. Rulesets
// that fail are skipped; the merged report succeeds if any ruleset did.
func (s *Scanner) ScanIaC(ctx context.Context, iacPath string) *Report {
	s.logger.Info("scanning IaC directory", "path", iacPath)

	merged := &Report{
		Status:            StatusSuccess,
		SeverityBreakdown: breakdown(nil),
		ScannedPath:       iacPath,
	}

	for _, ruleset := range []string{RulesetTerraform, RulesetCloudFormation, RulesetKubernetes} {
		report := s.ScanRepository(ctx, iacPath, ruleset)
		if report.Status != StatusSuccess {
			s.logger.Warn("IaC ruleset skipped",
				"ruleset", ruleset,
				"status", report.Status)
			continue
		}
		merged.Findings = append(merged.Findings, report.Findings...)
		mergeBreakdowns(merged.SeverityBreakdown, report.SeverityBreakdown)
	}

	return merged
}

// ScanSelf scans the project's own source plus its infrastructure
// directory when one exists, merging the results into a single report.
func (s *Scanner) ScanSelf(ctx context.Context, projectRoot string) *Report {
	s.logger.Info("performing self-scan", "root", projectRoot)

	merged := s.ScanRepository(ctx, projectRoot, RulesetGo)

	iacPath := filepath.Join(projectRoot, "infrastructure")
	if info, err := os.Stat(iacPath); err == nil && info.IsDir() {
		iac := s.ScanIaC(ctx, iacPath)
		merged.Findings = append(merged.Findings, iac.Findings...)
		mergeBreakdowns(merged.SeverityBreakdown, iac.SeverityBreakdown)
	}

	return merged
}

// semgrepOutput mirrors the scanner's JSON document shape.
type semgrepOutput struct {
	Results []semgrepResult `json:"results"`
	Errors  []any           `json:"errors"`
}

type semgrepResult struct {
	CheckID string `json:"check_id"`
	Path    string `json:"path"`
	Start   struct {
		Line int `json:"line"`
	} `json:"start"`
	Extra struct {
		Severity string         `json:"severity"`
		Message  string         `json:"message"`
		Lines    string         `json:"lines"`
		Fix      string         `json:"fix"`
		Metadata map[string]any `json:"metadata"`
	} `json:"extra"`
}

// ParseOutput parses the scanner's JSON document into a Report.
// Unparseable output yields StatusParseError with the parse error text.
func ParseOutput(data []byte) *Report {
	var doc semgrepOutput
	if err := json.Unmarshal(data, &doc); err != nil {
		return &Report{
			Status:            StatusParseError,
			Error:             err.Error(),
			SeverityBreakdown: breakdown(nil),
		}
	}

	findings := make([]Finding, 0, len(doc.Results))
	for _, r := range doc.Results {
		sev, err := ParseSeverity(r.Extra.Severity)
		if err != nil {
			sev = SeverityInfo
		}
		findings = append(findings, Finding{
			RuleID:   r.CheckID,
			Severity: sev,
			Message:  r.Extra.Message,
			File:     r.Path,
			Line:     r.Start.Line,
			Code:     r.Extra.Lines,
			Fix:      r.Extra.Fix,
			Metadata: r.Extra.Metadata,
		})
	}

	return &Report{
		Status:            StatusSuccess,
		Findings:          findings,
		SeverityBreakdown: breakdown(findings),
	}
}
