package scan

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `{
  "results": [
    {
      "check_id": "go.lang.security.audit.crypto.weak-hash",
      "path": "internal/auth/hash.go",
      "start": {"line": 42},
      "extra": {
        "severity": "ERROR",
        "message": "Weak hash function detected",
        "lines": "h := md5.New()",
        "metadata": {"cwe": "CWE-328"}
      }
    },
    {
      "check_id": "terraform.aws.security.s3-public-read",
      "path": "infrastructure/main.tf",
      "start": {"line": 7},
      "extra": {
        "severity": "WARNING",
        "message": "S3 bucket allows public read",
        "fix": "acl = \"private\""
      }
    }
  ],
  "errors": []
}`

func TestParseOutput(t *testing.T) {
	report := ParseOutput([]byte(sampleOutput))

	require.Equal(t, StatusSuccess, report.Status)
	require.Len(t, report.Findings, 2)

	first := report.Findings[0]
	assert.Equal(t, "go.lang.security.audit.crypto.weak-hash", first.RuleID)
	assert.Equal(t, SeverityError, first.Severity)
	assert.Equal(t, "internal/auth/hash.go", first.File)
	assert.Equal(t, 42, first.Line)
	assert.Equal(t, "CWE-328", first.Metadata["cwe"])

	assert.Equal(t, "acl = \"private\"", report.Findings[1].Fix)

	assert.Equal(t, 1, report.SeverityBreakdown[SeverityError])
	assert.Equal(t, 1, report.SeverityBreakdown[SeverityWarning])
	assert.Equal(t, 0, report.SeverityBreakdown[SeverityInfo])
}

func TestParseOutput_Malformed(t *testing.T) {
	report := ParseOutput([]byte("not json at all"))

	assert.Equal(t, StatusParseError, report.Status)
	assert.NotEmpty(t, report.Error)
	assert.Empty(t, report.Findings)
}

func TestParseOutput_UnknownSeverityDefaultsToInfo(t *testing.T) {
	report := ParseOutput([]byte(`{"results":[{"check_id":"x","path":"a.go","start":{"line":1},"extra":{"severity":"BANANA","message":"m"}}]}`))

	require.Len(t, report.Findings, 1)
	assert.Equal(t, SeverityInfo, report.Findings[0].Severity)
}

// stubScanner returns a Scanner whose subprocess runner is replaced.
func stubScanner(run func(ctx context.Context, cfg runConfig) (*runResult, error)) *Scanner {
	s := NewScanner(slog.Default())
	s.run = run
	return s
}

func TestScanRepository_FindingsExitCode(t *testing.T) {
	s := stubScanner(func(ctx context.Context, cfg runConfig) (*runResult, error) {
		assert.Equal(t, semgrepBinary, cfg.Command)
		assert.Contains(t, cfg.Args, RulesetSecurityAudit)
		return &runResult{Stdout: []byte(sampleOutput), ExitCode: 1}, nil
	})

	report := s.ScanRepository(context.Background(), "/repo", "")
	assert.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 2, report.FindingCount())
	assert.Equal(t, "/repo", report.ScannedPath)
}

func TestScanRepository_AbnormalExit(t *testing.T) {
	s := stubScanner(func(ctx context.Context, cfg runConfig) (*runResult, error) {
		return &runResult{Stderr: []byte("config not found"), ExitCode: 7}, nil
	})

	report := s.ScanRepository(context.Background(), "/repo", "p/ci")
	assert.Equal(t, StatusError, report.Status)
	assert.Contains(t, report.Error, "config not found")
}

func TestScanRepository_Timeout(t *testing.T) {
	s := stubScanner(func(ctx context.Context, cfg runConfig) (*runResult, error) {
		return &runResult{}, fmt.Errorf("%w after %v", ErrTimedOut, cfg.Timeout)
	})

	report := s.ScanRepository(context.Background(), "/repo", "")
	assert.Equal(t, StatusTimeout, report.Status)
}

func TestScanIaC_MergesRulesets(t *testing.T) {
	var rulesets []string
	s := stubScanner(func(ctx context.Context, cfg runConfig) (*runResult, error) {
		// --config value is the element after the flag.
		for i, a := range cfg.Args {
			if a == "--config" {
				rulesets = append(rulesets, cfg.Args[i+1])
			}
		}
		return &runResult{Stdout: []byte(sampleOutput), ExitCode: 1}, nil
	})

	report := s.ScanIaC(context.Background(), "/repo/infrastructure")
	assert.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 6, report.FindingCount())
	assert.Equal(t, []string{RulesetTerraform, RulesetCloudFormation, RulesetKubernetes}, rulesets)
	assert.Equal(t, 3, report.SeverityBreakdown[SeverityError])
}

func TestScanIaC_SkipsFailedRuleset(t *testing.T) {
	call := 0
	s := stubScanner(func(ctx context.Context, cfg runConfig) (*runResult, error) {
		call++
		if call == 2 {
			return &runResult{Stderr: []byte("boom"), ExitCode: 2}, nil
		}
		return &runResult{Stdout: []byte(sampleOutput), ExitCode: 1}, nil
	})

	report := s.ScanIaC(context.Background(), "/iac")
	assert.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 4, report.FindingCount())
}

func TestFilterBySeverity(t *testing.T) {
	findings := []Finding{
		{RuleID: "a", Severity: SeverityError},
		{RuleID: "b", Severity: SeverityWarning},
		{RuleID: "c", Severity: SeverityInfo},
	}

	tests := []struct {
		name string
		min  Severity
		want int
	}{
		{"errors only", SeverityError, 1},
		{"warning and up", SeverityWarning, 2},
		{"everything", SeverityInfo, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBySeverity(findings, tt.min)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestRunCommand_CapturesOutput(t *testing.T) {
	result, err := runCommand(context.Background(), runConfig{
		Command: "echo",
		Args:    []string{"hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", string(result.Stdout))
}

func TestRunCommand_NonZeroExitIsNotError(t *testing.T) {
	result, err := runCommand(context.Background(), runConfig{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestRunCommand_MissingBinary(t *testing.T) {
	_, err := runCommand(context.Background(), runConfig{
		Command: "definitely-not-a-real-binary-xyz",
	})
	require.Error(t, err)
}
