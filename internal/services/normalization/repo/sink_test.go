package repo

import (
	"path/filepath"
	"testing"

	perr "meridian/internal/platform/errors"
)

func TestSink_PathsAndRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewSink(filepath.Join(dir, "silver"), filepath.Join(dir, "quarantine"), filepath.Join(dir, "reports"))

	if got := s.SilverPath("upl_1"); got != filepath.Join(dir, "silver", "upl_1.json") {
		t.Errorf("silver path = %q", got)
	}
	if got := s.QuarantinePath("upl_1"); got != filepath.Join(dir, "quarantine", "upl_1.json") {
		t.Errorf("quarantine path = %q", got)
	}
	if got := s.ReportPath("upl_1"); got != filepath.Join(dir, "reports", "upl_1.json") {
		t.Errorf("report path = %q", got)
	}

	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	path := s.ReportPath("upl_1")
	if err := s.WriteJSON(path, payload{Name: "x", N: 7}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out payload
	if err := s.ReadJSON(path, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Name != "x" || out.N != 7 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestSink_ReadMissingIsStorageError(t *testing.T) {
	s := NewSink(t.TempDir(), t.TempDir(), t.TempDir())
	var out map[string]any
	err := s.ReadJSON(s.ReportPath("upl_missing"), &out)
	if !perr.IsCode(err, perr.ErrorCodeStorage) {
		t.Fatalf("code = %v, want storage", perr.CodeOf(err))
	}
}
