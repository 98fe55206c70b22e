package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// correlationFileName is the per-day summary file linking tests to controls.
const correlationFileName = "control_correlation.json"

// LocalSink writes evidence as JSON files under a root directory,
// partitioned by date:
//
//	<root>/<YYYY-MM-DD>/evidence_<test_id>.json
//	<root>/<YYYY-MM-DD>/control_correlation.json
//
// The correlation file is rewritten on every upload to cover all
// packages stored for that day.
type LocalSink struct {
	root string
	now  func() time.Time
}

// NewLocalSink returns a sink rooted at dir.
func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{root: dir, now: time.Now}
}

// correlation is the shape of the per-day summary file.
type correlation struct {
	Date        string              `json:"date"`
	Total       int                 `json:"total"`
	Passed      int                 `json:"passed"`
	Failed      int                 `json:"failed"`
	ByControl   map[string][]string `json:"by_control"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Upload implements Sink.
func (s *LocalSink) Upload(ctx context.Context, packages []Package) ([]UploadStatus, error) {
	day := s.now().UTC().Format("2006-01-02")
	dir := filepath.Join(s.root, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create evidence directory: %w", err)
	}

	statuses := make([]UploadStatus, 0, len(packages))
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return statuses, err
		}
		status := UploadStatus{TestID: pkg.TestID, State: Uploaded}
		if err := writeJSON(filepath.Join(dir, "evidence_"+pkg.TestID+".json"), pkg); err != nil {
			status.State = Failed
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}

	if err := s.writeCorrelation(dir, day); err != nil {
		return statuses, fmt.Errorf("write control correlation: %w", err)
	}
	return statuses, nil
}

// writeCorrelation rebuilds the day's summary from the evidence files on
// disk, so repeated uploads within a day stay consistent.
func (s *LocalSink) writeCorrelation(dir, day string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "evidence_*.json"))
	if err != nil {
		return err
	}

	corr := correlation{
		Date:        day,
		ByControl:   make(map[string][]string),
		GeneratedAt: s.now().UTC(),
	}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var pkg Package
		if err := json.Unmarshal(data, &pkg); err != nil {
			continue
		}
		corr.Total++
		if pkg.TestPassed {
			corr.Passed++
		} else {
			corr.Failed++
		}
		for _, id := range pkg.ControlIDs {
			corr.ByControl[id] = append(corr.ByControl[id], pkg.TestID)
		}
	}

	return writeJSON(filepath.Join(dir, correlationFileName), corr)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var _ Sink = (*LocalSink)(nil)
