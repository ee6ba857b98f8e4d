// Package repo implements the artifact sink for normalization outputs
package repo

import (
	"encoding/json"
	"os"
	"path/filepath"

	perr "meridian/internal/platform/errors"
)

// Sink writes and reads JSON artifacts under the configured directories
type Sink struct {
	SilverDir     string
	QuarantineDir string
	ReportDir     string
}

// NewSink returns a sink writing silver, quarantine, and report artifacts
func NewSink(silverDir, quarantineDir, reportDir string) *Sink {
	return &Sink{SilverDir: silverDir, QuarantineDir: quarantineDir, ReportDir: reportDir}
}

// SilverPath returns the silver artifact location for an upload
func (s *Sink) SilverPath(uploadID string) string {
	return filepath.Join(s.SilverDir, uploadID+".json")
}

// QuarantinePath returns the quarantine artifact location for an upload
func (s *Sink) QuarantinePath(uploadID string) string {
	return filepath.Join(s.QuarantineDir, uploadID+".json")
}

// ReportPath returns the report location for an upload
func (s *Sink) ReportPath(uploadID string) string {
	return filepath.Join(s.ReportDir, uploadID+".json")
}

// WriteJSON persists payload at path creating parent directories as needed
func (s *Sink) WriteJSON(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "create artifact dir for %s", path)
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "encode artifact %s", path)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "write artifact %s", path)
	}
	return nil
}

// ReadJSON loads the artifact at path into out
func (s *Sink) ReadJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "artifact %s is missing from disk", path)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "read artifact %s", path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "artifact %s is invalid JSON", path)
	}
	return nil
}
