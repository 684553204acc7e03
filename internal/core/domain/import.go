package domain

import "time"

// ImportStatus is the terminal state of an import.
type ImportStatus string

const (
	ImportSucceeded ImportStatus = "succeeded"
	ImportFailed    ImportStatus = "failed"
	ImportCancelled ImportStatus = "cancelled"
	ImportDryRun    ImportStatus = "dry_run"
)

// ImportSource says where the design came from.
type ImportSource string

const (
	SourceService ImportSource = "service"
	SourceFile    ImportSource = "file"
	SourceInline  ImportSource = "inline"
)

// ImportRecord is the outcome of one import. The design itself is not kept.
type ImportRecord struct {
	// ID is the unique identifier for the import (UUID).
	ID string `json:"id"`

	Source ImportSource `json:"source"`

	// Label is a human hint such as the file name or the request summary.
	Label string `json:"label,omitempty"`

	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Status     ImportStatus `json:"status"`

	// Phase is set when the build failed.
	Phase Phase `json:"phase,omitempty"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`

	// Planned counts entities in the design; Created counts what was committed.
	Planned Counts `json:"planned"`
	Created Counts `json:"created"`
}

// Duration returns how long the import took.
func (r ImportRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ImportOptions tunes a single import.
type ImportOptions struct {
	// DryRun builds inside a transaction that is always rolled back.
	DryRun bool

	// Label overrides the record label.
	Label string
}

// ImportResult is returned to callers of an import.
type ImportResult struct {
	Record ImportRecord
	Result *BuildResult
}
