// Package service runs the CSV normalization pipeline over stored uploads
package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"meridian/internal/core/normalize"
	perr "meridian/internal/platform/errors"
	"meridian/internal/platform/logger"
	ptime "meridian/internal/platform/time"
	"meridian/internal/services/normalization/domain"
	"meridian/internal/services/normalization/repo"

	ingestdomain "meridian/internal/services/ingest/domain"
)

// defaultMaxErrors applies when a run does not specify its own limit
const defaultMaxErrors = 100

// Config for the normalization service
type Config struct {
	// MaxErrors is the hard ceiling on collected diagnostics per run,
	// request supplied limits are clamped to it
	MaxErrors int
}

// Service implements domain.NormalizerPort
type Service struct {
	Records ingestdomain.RecordsPort
	Sink    *repo.Sink
	Cfg     Config
}

// New constructs a normalization service over the given upload records and artifact sink
func New(records ingestdomain.RecordsPort, sink *repo.Sink, cfg Config) *Service {
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = defaultMaxErrors
	}
	return &Service{Records: records, Sink: sink, Cfg: cfg}
}

// Normalize implements domain.NormalizerPort
// it streams the stored CSV through the row normalizer, partitions rows into
// silver and quarantine artifacts, writes a report, and records a summary on
// the upload manifest entry
func (s *Service) Normalize(ctx context.Context, uploadID string, maxErrors int) (domain.Report, error) {
	upload, err := s.Records.Get(ctx, uploadID)
	if err != nil {
		return domain.Report{}, err
	}

	if ext := strings.ToLower(filepath.Ext(upload.StoredFilename)); ext != ".csv" {
		return domain.Report{}, perr.InvalidArgf("normalization currently supports CSV uploads only")
	}

	f, err := os.Open(upload.StoredPath)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Report{}, perr.NotFoundf("stored upload file was not found at %q", upload.StoredPath)
	}
	if err != nil {
		return domain.Report{}, perr.Wrapf(err, perr.ErrorCodeStorage, "open stored upload %s", upload.StoredPath)
	}
	defer func() { _ = f.Close() }()

	// uploads written by spreadsheet tools often carry a BOM, strip it before
	// the CSV reader sees the header
	reader := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return domain.Report{}, perr.Validationf("CSV header row is missing")
	}
	if err != nil {
		return domain.Report{}, perr.Validationf("malformed CSV header: %v", err)
	}

	limit := maxErrors
	if limit <= 0 {
		limit = defaultMaxErrors
	}
	if limit > s.Cfg.MaxErrors {
		limit = s.Cfg.MaxErrors
	}
	if limit < 1 {
		limit = 1
	}

	validRows := []*normalize.Row{}
	invalidRows := []domain.QuarantinedRow{}
	allErrors := []normalize.Diagnostic{}
	allWarnings := []normalize.Diagnostic{}
	limitReached := false

	// header is row 1, data rows start at 2
	for rowNumber := 2; ; rowNumber++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Report{}, perr.Validationf("malformed CSV at row %d: %v", rowNumber, err)
		}

		row, rowErrors, rowWarnings := normalize.NormalizeRow(header, record, rowNumber)
		if row != nil {
			validRows = append(validRows, row)
		}
		if len(rowErrors) > 0 {
			invalidRows = append(invalidRows, domain.QuarantinedRow{
				RowNumber: rowNumber,
				Raw:       normalize.NewRawRow(header, record),
				Errors:    rowErrors,
			})
		}

		for _, d := range rowErrors {
			if len(allErrors) < limit {
				allErrors = append(allErrors, d)
			} else {
				limitReached = true
			}
		}
		if len(allWarnings) < limit {
			room := limit - len(allWarnings)
			if room > len(rowWarnings) {
				room = len(rowWarnings)
			}
			allWarnings = append(allWarnings, rowWarnings[:room]...)
		}
	}

	rowsTotal := len(validRows) + len(invalidRows)
	if rowsTotal == 0 {
		return domain.Report{}, perr.Validationf("no data rows were found in the uploaded CSV")
	}

	processedAt := ptime.NowRFC3339()
	silverPath := s.Sink.SilverPath(uploadID)
	quarantinePath := s.Sink.QuarantinePath(uploadID)
	reportPath := s.Sink.ReportPath(uploadID)

	if err := s.Sink.WriteJSON(silverPath, domain.SilverArtifact{
		UploadID:    uploadID,
		ProcessedAt: processedAt,
		Rows:        validRows,
	}); err != nil {
		return domain.Report{}, err
	}
	if err := s.Sink.WriteJSON(quarantinePath, domain.QuarantineArtifact{
		UploadID:    uploadID,
		ProcessedAt: processedAt,
		Rows:        invalidRows,
	}); err != nil {
		return domain.Report{}, err
	}

	sample := validRows
	if len(sample) > 5 {
		sample = sample[:5]
	}
	report := domain.Report{
		UploadID:    uploadID,
		ProcessedAt: processedAt,
		Source: domain.Source{
			OriginalFilename: upload.OriginalFilename,
			StoredFilename:   upload.StoredFilename,
			StoredPath:       upload.StoredPath,
			FileHash:         upload.FileHash,
		},
		Totals: domain.Totals{
			RowsTotal:         rowsTotal,
			RowsValid:         len(validRows),
			RowsInvalid:       len(invalidRows),
			ErrorCount:        len(allErrors),
			WarningCount:      len(allWarnings),
			ErrorLimitReached: limitReached,
		},
		SampleNormalizedRows: sample,
		Errors:               allErrors,
		Warnings:             allWarnings,
		Artifacts: domain.Artifacts{
			SilverPath:     silverPath,
			QuarantinePath: quarantinePath,
		},
	}
	if err := s.Sink.WriteJSON(reportPath, report); err != nil {
		return domain.Report{}, err
	}

	if err := s.Records.AttachNormalization(ctx, uploadID, ingestdomain.NormalizationRun{
		Status:         "completed",
		ProcessedAt:    processedAt,
		RowsTotal:      rowsTotal,
		RowsValid:      len(validRows),
		RowsInvalid:    len(invalidRows),
		ReportPath:     reportPath,
		SilverPath:     silverPath,
		QuarantinePath: quarantinePath,
	}); err != nil {
		return domain.Report{}, err
	}

	logger.C(ctx).Info().
		Str("upload_id", uploadID).
		Int("rows_total", rowsTotal).
		Int("rows_valid", len(validRows)).
		Int("rows_invalid", len(invalidRows)).
		Bool("error_limit_reached", limitReached).
		Msg("normalization completed")

	return report, nil
}

// Report implements domain.NormalizerPort returning the persisted report
func (s *Service) Report(ctx context.Context, uploadID string) (domain.Report, error) {
	upload, err := s.Records.Get(ctx, uploadID)
	if err != nil {
		return domain.Report{}, err
	}
	if upload.Normalization == nil {
		return domain.Report{}, perr.NotFoundf("no normalization report found for upload %q", uploadID)
	}

	var report domain.Report
	if err := s.Sink.ReadJSON(upload.Normalization.ReportPath, &report); err != nil {
		return domain.Report{}, err
	}
	return report, nil
}
