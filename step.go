package chaossec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Step names one stage of the iteration pipeline.
type Step string

// The pipeline stages, in execution order.
const (
	StepSimulate Step = "simulate"
	StepScan     Step = "scan"
	StepReason   Step = "reason"
	StepInject   Step = "inject"
	StepMonitor  Step = "monitor"
	StepValidate Step = "validate"
	StepReport   Step = "report"
	StepLearn    Step = "learn"
)

// PipelineSteps is the canonical stage order.
var PipelineSteps = []Step{
	StepSimulate,
	StepScan,
	StepReason,
	StepInject,
	StepMonitor,
	StepValidate,
	StepReport,
	StepLearn,
}

// IsValid checks if the step is a recognized stage name.
func (s Step) IsValid() bool {
	for _, step := range PipelineSteps {
		if s == step {
			return true
		}
	}
	return false
}

// stepEntry pairs a stage name with its recorded payload.
type stepEntry struct {
	step    Step
	payload any
}

// Steps is the ordered record of completed stages in an iteration. An
// iteration that fails mid-way holds the prefix of stages that ran to
// completion; later stages are simply absent.
type Steps struct {
	entries []stepEntry
}

// Record appends a completed stage and its payload. Stages are recorded
// at most once, in pipeline order.
func (s *Steps) Record(step Step, payload any) {
	s.entries = append(s.entries, stepEntry{step: step, payload: payload})
}

// Get returns the payload recorded for a stage.
func (s *Steps) Get(step Step) (any, bool) {
	for _, e := range s.entries {
		if e.step == step {
			return e.payload, true
		}
	}
	return nil, false
}

// Names returns the completed stage names in recorded order.
func (s *Steps) Names() []Step {
	names := make([]Step, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.step
	}
	return names
}

// Len returns the number of completed stages.
func (s *Steps) Len() int {
	return len(s.entries)
}

// MarshalJSON renders the steps as a JSON object whose keys appear in
// recorded order, matching the persisted iteration format.
func (s Steps) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(e.step))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.payload)
		if err != nil {
			return nil, fmt.Errorf("marshal step %s: %w", e.step, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the steps from a JSON object. Key order in the
// source is preserved.
func (s *Steps) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("steps: expected object, got %v", tok)
	}

	s.entries = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("steps: expected string key, got %v", keyTok)
		}
		var payload any
		if err := dec.Decode(&payload); err != nil {
			return err
		}
		s.entries = append(s.entries, stepEntry{step: Step(key), payload: payload})
	}
	_, err = dec.Token()
	return err
}
