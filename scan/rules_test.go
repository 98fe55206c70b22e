package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewCustomRule_Defaults(t *testing.T) {
	rule := NewCustomRule("no-exec", "exec.Command(...)", "avoid raw exec")

	assert.Equal(t, SeverityWarning, rule.Severity)
	assert.Equal(t, []string{"go"}, rule.Languages)
	require.NoError(t, rule.Validate())
}

func TestCustomRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CustomRule)
		wantErr string
	}{
		{"missing id", func(r *CustomRule) { r.ID = "" }, "rule ID is required"},
		{"missing pattern", func(r *CustomRule) { r.Pattern = "" }, "rule pattern is required"},
		{"missing message", func(r *CustomRule) { r.Message = "" }, "rule message is required"},
		{"bad severity", func(r *CustomRule) { r.Severity = "FATAL" }, "invalid severity"},
		{"no languages", func(r *CustomRule) { r.Languages = nil }, "at least one language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewCustomRule("id", "pat", "msg")
			tt.mutate(&rule)
			err := rule.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCustomRule_WriteFile(t *testing.T) {
	rule := NewCustomRule("test-rule", "dangerous(...)", "dangerous call")
	path := filepath.Join(t.TempDir(), "rule.yaml")

	require.NoError(t, rule.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed ruleFile
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Len(t, parsed.Rules, 1)
	assert.Equal(t, "test-rule", parsed.Rules[0].ID)
	assert.Equal(t, SeverityWarning, parsed.Rules[0].Severity)
}
