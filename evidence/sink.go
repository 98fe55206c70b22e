package evidence

import "context"

// UploadState classifies the result of uploading one package.
type UploadState string

const (
	// Uploaded indicates the package was stored.
	Uploaded UploadState = "uploaded"

	// Failed indicates the package could not be stored.
	Failed UploadState = "failed"
)

// UploadStatus reports the outcome for one package.
type UploadStatus struct {
	// TestID identifies the package.
	TestID string `json:"test_id"`

	// State is the per-package outcome.
	State UploadState `json:"state"`

	// Error carries the failure text when State is failed.
	Error string `json:"error,omitempty"`
}

// Sink stores evidence packages. Upload is per-package best effort: a
// failed package is reported in its status, and the returned error is
// non-nil only when the sink as a whole is unusable.
type Sink interface {
	Upload(ctx context.Context, packages []Package) ([]UploadStatus, error)
}
