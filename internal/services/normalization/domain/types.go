// Package domain defines the types and interfaces for the normalization service
package domain

import "meridian/internal/core/normalize"

// NormalizeInput is the optional request body for a normalization run
type NormalizeInput struct {
	MaxErrors *int `json:"max_errors" validate:"omitempty,min=1"`
}

// Source identifies the upload a report was produced from
type Source struct {
	OriginalFilename string `json:"original_filename"`
	StoredFilename   string `json:"stored_filename"`
	StoredPath       string `json:"stored_path"`
	FileHash         string `json:"file_hash"`
}

// Totals summarizes one normalization pass
type Totals struct {
	RowsTotal         int  `json:"rows_total"`
	RowsValid         int  `json:"rows_valid"`
	RowsInvalid       int  `json:"rows_invalid"`
	ErrorCount        int  `json:"error_count"`
	WarningCount      int  `json:"warning_count"`
	ErrorLimitReached bool `json:"error_limit_reached"`
}

// Artifacts points at the silver and quarantine outputs on disk
type Artifacts struct {
	SilverPath     string `json:"silver_path"`
	QuarantinePath string `json:"quarantine_path"`
}

// Report is the full normalization report persisted alongside the artifacts
type Report struct {
	UploadID             string                 `json:"upload_id"`
	ProcessedAt          string                 `json:"processed_at"`
	Source               Source                 `json:"source"`
	Totals               Totals                 `json:"totals"`
	SampleNormalizedRows []*normalize.Row       `json:"sample_normalized_rows"`
	Errors               []normalize.Diagnostic `json:"errors"`
	Warnings             []normalize.Diagnostic `json:"warnings"`
	Artifacts            Artifacts              `json:"artifacts"`
}

// QuarantinedRow is one rejected row with its raw cells and errors
type QuarantinedRow struct {
	RowNumber int                    `json:"row_number"`
	Raw       normalize.RawRow       `json:"raw"`
	Errors    []normalize.Diagnostic `json:"errors"`
}

// SilverArtifact is the accepted rows output
type SilverArtifact struct {
	UploadID    string           `json:"upload_id"`
	ProcessedAt string           `json:"processed_at"`
	Rows        []*normalize.Row `json:"rows"`
}

// QuarantineArtifact is the rejected rows output
type QuarantineArtifact struct {
	UploadID    string           `json:"upload_id"`
	ProcessedAt string           `json:"processed_at"`
	Rows        []QuarantinedRow `json:"rows"`
}
