package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CustomRule describes a single scanner rule to be emitted as YAML.
type CustomRule struct {
	// ID is the unique rule identifier.
	ID string `yaml:"id"`

	// Pattern is the scanner pattern to match.
	Pattern string `yaml:"pattern"`

	// Message is displayed when the rule matches.
	Message string `yaml:"message"`

	// Severity is the rule's severity level.
	Severity Severity `yaml:"severity"`

	// Languages lists the languages the rule applies to.
	Languages []string `yaml:"languages"`
}

// ruleFile is the scanner's rule file document shape.
type ruleFile struct {
	Rules []CustomRule `yaml:"rules"`
}

// NewCustomRule builds a rule with defaults applied: WARNING severity and
// the go language when unspecified.
func NewCustomRule(id, pattern, message string) CustomRule {
	return CustomRule{
		ID:        id,
		Pattern:   pattern,
		Message:   message,
		Severity:  SeverityWarning,
		Languages: []string{"go"},
	}
}

// Validate checks that the rule has the fields the scanner requires.
func (r CustomRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule ID is required")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule pattern is required")
	}
	if r.Message == "" {
		return fmt.Errorf("rule message is required")
	}
	if !r.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if len(r.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	return nil
}

// Marshal renders the rule as a standalone scanner rule file.
func (r CustomRule) Marshal() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(ruleFile{Rules: []CustomRule{r}})
}

// WriteFile writes the rule to a YAML file usable as a --config argument.
func (r CustomRule) WriteFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}
	return nil
}
