package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "meridian/internal/platform/net/http"
	"meridian/internal/services/ingest/domain"
	"meridian/internal/services/ingest/repo"
	"meridian/internal/services/ingest/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	svc := service.New(
		repo.NewManifest(filepath.Join(dir, "manifest.json")),
		service.Config{StorageDir: dir},
	)

	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), svc)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	body, ctype := multipartBody(t, "file", "shipments.csv", []byte("shipment_id\nSHP-1\n"))
	resp, err := stdhttp.Post(ts.URL+"/upload", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var env struct {
		Data domain.IngestResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.UploadID == "" || env.Data.Cached {
		t.Fatalf("unexpected result: %+v", env.Data)
	}

	// same bytes again answers 200 with the original record
	body, ctype = multipartBody(t, "file", "renamed.csv", []byte("shipment_id\nSHP-1\n"))
	resp2, err := stdhttp.Post(ts.URL+"/upload", ctype, body)
	if err != nil {
		t.Fatalf("post again: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()

	if resp2.StatusCode != stdhttp.StatusOK {
		t.Fatalf("cached status = %d, want 200", resp2.StatusCode)
	}
	var env2 struct {
		Data domain.IngestResult `json:"data"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&env2); err != nil {
		t.Fatalf("decode cached: %v", err)
	}
	if !env2.Data.Cached || env2.Data.UploadID != env.Data.UploadID {
		t.Fatalf("dedup result: %+v, want cached copy of %s", env2.Data, env.Data.UploadID)
	}

	// detail endpoint resolves the record
	resp3, err := stdhttp.Get(ts.URL + "/uploads/" + env.Data.UploadID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	defer func() { _ = resp3.Body.Close() }()
	if resp3.StatusCode != stdhttp.StatusOK {
		t.Fatalf("detail status = %d, want 200", resp3.StatusCode)
	}
}

func TestUploadMissingFileField(t *testing.T) {
	ts := newTestServer(t)

	body, ctype := multipartBody(t, "wrong", "shipments.csv", []byte("x"))
	resp, err := stdhttp.Post(ts.URL+"/upload", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	resp, err := stdhttp.Get(ts.URL + "/uploads?limit=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListCountsUploads(t *testing.T) {
	ts := newTestServer(t)

	for _, payload := range []string{"a\n1\n", "b\n2\n"} {
		body, ctype := multipartBody(t, "file", "f.csv", []byte(payload))
		resp, err := stdhttp.Post(ts.URL+"/upload", ctype, body)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		_ = resp.Body.Close()
	}

	resp, err := stdhttp.Get(ts.URL + "/uploads")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env struct {
		Data struct {
			Count   int             `json:"count"`
			Uploads []domain.Upload `json:"uploads"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Count != 2 || len(env.Data.Uploads) != 2 {
		t.Fatalf("count = %d uploads = %d, want 2/2", env.Data.Count, len(env.Data.Uploads))
	}
}
