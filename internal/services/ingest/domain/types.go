// Package domain defines the types and interfaces for the ingest service
package domain

// FileInput is one uploaded file as received from the transport layer
type FileInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Upload is one manifest entry for a stored file
// CreatedAt is RFC 3339 UTC
type Upload struct {
	UploadID         string            `json:"upload_id"`
	FileHash         string            `json:"file_hash"`
	OriginalFilename string            `json:"original_filename"`
	StoredFilename   string            `json:"stored_filename"`
	StoredPath       string            `json:"stored_path"`
	SizeBytes        int64             `json:"size_bytes"`
	ContentType      string            `json:"content_type"`
	CreatedAt        string            `json:"created_at"`
	Normalization    *NormalizationRun `json:"normalization,omitempty"`
}

// NormalizationRun summarizes the latest normalization pass over an upload
type NormalizationRun struct {
	Status         string `json:"status"`
	ProcessedAt    string `json:"processed_at"`
	RowsTotal      int    `json:"rows_total"`
	RowsValid      int    `json:"rows_valid"`
	RowsInvalid    int    `json:"rows_invalid"`
	ReportPath     string `json:"report_path"`
	SilverPath     string `json:"silver_path"`
	QuarantinePath string `json:"quarantine_path"`
}

// IngestResult is an Upload plus whether the content hash was already known
type IngestResult struct {
	Upload
	Cached bool `json:"cached"`
}
