// Package service provides the ingest service implementation
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	perr "meridian/internal/platform/errors"
	"meridian/internal/platform/logger"
	ptime "meridian/internal/platform/time"
	"meridian/internal/services/ingest/domain"
	"meridian/internal/services/ingest/repo"
)

// Config for the ingest service
type Config struct {
	StorageDir        string
	MaxBytes          int64
	AllowedExtensions []string
}

// Service implements domain.IngestPort and domain.RecordsPort against the manifest store
type Service struct {
	Store *repo.Manifest
	Cfg   Config

	allowed map[string]struct{}
}

// New constructs an ingest service with a required manifest store
func New(store *repo.Manifest, cfg Config) *Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = []string{".csv"}
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &Service{Store: store, Cfg: cfg, allowed: allowed}
}

// Ingest implements domain.IngestPort
// identical content is deduplicated by hash and answered from the manifest
func (s *Service) Ingest(ctx context.Context, in domain.FileInput) (domain.IngestResult, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if _, ok := s.allowed[ext]; !ok {
		return domain.IngestResult{}, perr.Validationf(
			"unsupported file extension %q, allowed: %s", ext, strings.Join(s.sortedAllowed(), ", "),
		)
	}

	size := int64(len(in.Content))
	if size <= 0 {
		return domain.IngestResult{}, perr.Validationf("uploaded file is empty")
	}
	if size > s.Cfg.MaxBytes {
		return domain.IngestResult{}, perr.TooLargef("file exceeds upload limit of %d bytes", s.Cfg.MaxBytes)
	}

	sum := sha256.Sum256(in.Content)
	hash := hex.EncodeToString(sum[:])

	if err := os.MkdirAll(s.Cfg.StorageDir, 0o755); err != nil {
		return domain.IngestResult{}, perr.Wrapf(err, perr.ErrorCodeStorage, "create storage dir %s", s.Cfg.StorageDir)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var out domain.IngestResult
	err := s.Store.Mutate(func(doc *repo.Doc) error {
		for _, u := range doc.Uploads {
			if u.FileHash == hash {
				out = domain.IngestResult{Upload: u, Cached: true}
				return nil
			}
		}

		storedFilename := hash + ext
		storedPath := filepath.Join(s.Cfg.StorageDir, storedFilename)
		if err := os.WriteFile(storedPath, in.Content, 0o644); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeStorage, "store upload %s", storedPath)
		}

		record := domain.Upload{
			UploadID:         newUploadID(),
			FileHash:         hash,
			OriginalFilename: in.Filename,
			StoredFilename:   storedFilename,
			StoredPath:       storedPath,
			SizeBytes:        size,
			ContentType:      contentType,
			CreatedAt:        ptime.NowRFC3339(),
		}
		doc.Uploads = append(doc.Uploads, record)
		out = domain.IngestResult{Upload: record, Cached: false}
		return nil
	})
	if err != nil {
		return domain.IngestResult{}, err
	}

	if !out.Cached {
		logger.C(ctx).Info().
			Str("upload_id", out.UploadID).
			Str("file_hash", out.FileHash).
			Int64("size_bytes", out.SizeBytes).
			Msg("upload stored")
	}
	return out, nil
}

// List implements domain.IngestPort returning newest uploads first
func (s *Service) List(_ context.Context, limit int) ([]domain.Upload, error) {
	doc, err := s.Store.Snapshot()
	if err != nil {
		return nil, err
	}

	uploads := append([]domain.Upload(nil), doc.Uploads...)
	sort.SliceStable(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt > uploads[j].CreatedAt
	})

	if limit < 1 {
		limit = 1
	}
	if limit < len(uploads) {
		uploads = uploads[:limit]
	}
	return uploads, nil
}

// Get implements domain.IngestPort and domain.RecordsPort
func (s *Service) Get(_ context.Context, uploadID string) (domain.Upload, error) {
	doc, err := s.Store.Snapshot()
	if err != nil {
		return domain.Upload{}, err
	}
	for _, u := range doc.Uploads {
		if u.UploadID == uploadID {
			return u, nil
		}
	}
	return domain.Upload{}, perr.NotFoundf("upload %q was not found", uploadID)
}

// AttachNormalization implements domain.RecordsPort
func (s *Service) AttachNormalization(_ context.Context, uploadID string, run domain.NormalizationRun) error {
	return s.Store.Mutate(func(doc *repo.Doc) error {
		for i := range doc.Uploads {
			if doc.Uploads[i].UploadID == uploadID {
				doc.Uploads[i].Normalization = &run
				return nil
			}
		}
		return perr.NotFoundf("upload %q was not found", uploadID)
	})
}

func (s *Service) sortedAllowed() []string {
	exts := make([]string, 0, len(s.allowed))
	for ext := range s.allowed {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func newUploadID() string {
	return fmt.Sprintf("upl_%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
