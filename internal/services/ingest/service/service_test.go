package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perr "meridian/internal/platform/errors"
	"meridian/internal/services/ingest/domain"
	"meridian/internal/services/ingest/repo"
)

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	dir := t.TempDir()
	if cfg.StorageDir == "" {
		cfg.StorageDir = filepath.Join(dir, "uploads")
	}
	return New(repo.NewManifest(filepath.Join(dir, "manifest.json")), cfg)
}

func csvInput(name, body string) domain.FileInput {
	return domain.FileInput{Filename: name, ContentType: "text/csv", Content: []byte(body)}
}

func TestIngest_StoresFileAndRecord(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()

	res, err := svc.Ingest(ctx, csvInput("shipments.csv", "a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Cached {
		t.Error("first ingest must not be cached")
	}
	if !strings.HasPrefix(res.UploadID, "upl_") || len(res.UploadID) != len("upl_")+12 {
		t.Errorf("upload id = %q", res.UploadID)
	}
	if res.StoredFilename != res.FileHash+".csv" {
		t.Errorf("stored filename = %q, want hash + ext", res.StoredFilename)
	}
	if res.SizeBytes != 8 {
		t.Errorf("size = %d, want 8", res.SizeBytes)
	}
	if _, err := time.Parse(time.RFC3339, res.CreatedAt); err != nil {
		t.Errorf("created_at %q not RFC3339: %v", res.CreatedAt, err)
	}

	content, err := os.ReadFile(res.StoredPath)
	if err != nil || string(content) != "a,b\n1,2\n" {
		t.Errorf("stored content = %q, err=%v", content, err)
	}

	got, err := svc.Get(ctx, res.UploadID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FileHash != res.FileHash {
		t.Errorf("get returned different record: %+v", got)
	}
}

func TestIngest_DeduplicatesByHash(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()

	first, err := svc.Ingest(ctx, csvInput("one.csv", "a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := svc.Ingest(ctx, csvInput("renamed.csv", "a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if !second.Cached {
		t.Error("identical content should be cached")
	}
	if second.UploadID != first.UploadID {
		t.Errorf("cached id = %q, want %q", second.UploadID, first.UploadID)
	}
	// the original filename is the one from the first ingest
	if second.OriginalFilename != "one.csv" {
		t.Errorf("original filename = %q", second.OriginalFilename)
	}

	uploads, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(uploads) != 1 {
		t.Errorf("manifest has %d records, want 1", len(uploads))
	}
}

func TestIngest_Rejections(t *testing.T) {
	svc := newTestService(t, Config{MaxBytes: 16})
	ctx := context.Background()

	cases := []struct {
		name string
		in   domain.FileInput
		code perr.ErrorCode
	}{
		{"bad extension", csvInput("notes.txt", "hello"), perr.ErrorCodeValidation},
		{"no extension", csvInput("README", "hello"), perr.ErrorCodeValidation},
		{"empty file", csvInput("empty.csv", ""), perr.ErrorCodeValidation},
		{"oversize", csvInput("big.csv", strings.Repeat("x", 17)), perr.ErrorCodeTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, tc.in)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !perr.IsCode(err, tc.code) {
				t.Errorf("code = %v, want %v", perr.CodeOf(err), tc.code)
			}
		})
	}
}

func TestList_NewestFirstAndClamped(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()

	for i, body := range []string{"a\n1\n", "a\n2\n", "a\n3\n"} {
		if _, err := svc.Ingest(ctx, csvInput("f.csv", body)); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	uploads, err := svc.List(ctx, 0) // clamped to 1
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(uploads) != 1 {
		t.Fatalf("limit 0 returned %d records", len(uploads))
	}

	all, err := svc.List(ctx, 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].CreatedAt < all[i].CreatedAt {
			t.Errorf("list not newest first at %d", i)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(t, Config{})
	_, err := svc.Get(context.Background(), "upl_missing")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v, want not found", perr.CodeOf(err))
	}
}

func TestAttachNormalization(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx := context.Background()

	res, err := svc.Ingest(ctx, csvInput("f.csv", "a\n1\n"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	run := domain.NormalizationRun{Status: "completed", RowsTotal: 10, RowsValid: 9, RowsInvalid: 1}
	if err := svc.AttachNormalization(ctx, res.UploadID, run); err != nil {
		t.Fatalf("attach: %v", err)
	}

	got, err := svc.Get(ctx, res.UploadID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Normalization == nil || got.Normalization.RowsValid != 9 {
		t.Fatalf("normalization not attached: %+v", got.Normalization)
	}

	if err := svc.AttachNormalization(ctx, "upl_nope", run); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Errorf("attach to unknown upload: code = %v, want not found", perr.CodeOf(err))
	}
}
