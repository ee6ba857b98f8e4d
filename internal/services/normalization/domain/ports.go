package domain

import "context"

// NormalizerPort runs normalization passes and serves their reports
type NormalizerPort interface {
	Normalize(ctx context.Context, uploadID string, maxErrors int) (Report, error)
	Report(ctx context.Context, uploadID string) (Report, error)
}
