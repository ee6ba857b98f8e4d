package domain

import "context"

// IngestPort accepts new uploads and answers queries about them
type IngestPort interface {
	Ingest(ctx context.Context, in FileInput) (IngestResult, error)
	List(ctx context.Context, limit int) ([]Upload, error)
	Get(ctx context.Context, uploadID string) (Upload, error)
}

// RecordsPort is the narrow surface other modules use to read upload
// records and attach normalization results to them
type RecordsPort interface {
	Get(ctx context.Context, uploadID string) (Upload, error)
	AttachNormalization(ctx context.Context, uploadID string, run NormalizationRun) error
}
