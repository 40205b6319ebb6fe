package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileInput is one user-selected document. It is not modified after selection.
type FileInput struct {
	Name      string
	MediaType string
	Bytes     []byte
}

// ExtractedContent is the prompt-ready representation of one FileInput.
type ExtractedContent struct {
	Text   string
	Format ContentFormat
}

// IsEmpty reports whether the content carries no text worth sending to the model.
func (c ExtractedContent) IsEmpty() bool {
	return c.Format == ContentFormatEmpty || c.Format == ContentFormatPlaceholder || c.Text == ""
}

// BatchResult holds the successful records of one run in input file order.
// Table headers are derived from the first element only.
type BatchResult []Record

// Columns returns the keys of the first record, or nil for an empty result.
func (b BatchResult) Columns() []string {
	if len(b) == 0 {
		return nil
	}
	return b[0].Keys()
}

// RunError is a per-file failure captured without aborting the batch.
type RunError struct {
	Filename string    `json:"filename"`
	Message  string    `json:"message"`
	Kind     ErrorKind `json:"kind"`
}

// RunConfig carries everything one batch run needs. It is passed by value.
type RunConfig struct {
	Credential string
	Files      []FileInput
}

// RunSummary is the operator-facing account of one run.
type RunSummary struct {
	RunID      uuid.UUID  `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Attempted  int        `json:"attempted"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Errors     []RunError `json:"errors"`
}

// BatchOutcome is what a batch run produces.
type BatchOutcome struct {
	RunID   uuid.UUID   `json:"run_id"`
	Results BatchResult `json:"results"`
	Errors  []RunError  `json:"errors"`
	Summary RunSummary  `json:"summary"`
}
