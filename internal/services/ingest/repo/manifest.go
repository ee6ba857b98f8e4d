// Package repo implements the JSON manifest store backing the ingest service
package repo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	perr "meridian/internal/platform/errors"
	"meridian/internal/services/ingest/domain"
)

// Doc is the manifest document as stored on disk
type Doc struct {
	Uploads []domain.Upload `json:"uploads"`
}

// Manifest is a mutex guarded JSON file holding every upload record
// mutations hold the lock across the read modify write cycle so concurrent
// requests cannot interleave
type Manifest struct {
	mu   sync.Mutex
	path string
}

// NewManifest returns a manifest store rooted at path
// the file is created lazily on first write
func NewManifest(path string) *Manifest {
	return &Manifest{path: path}
}

// Path returns the manifest file location
func (m *Manifest) Path() string { return m.path }

// Snapshot returns a copy of the current manifest document
func (m *Manifest) Snapshot() (Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Mutate runs fn against the document under the lock and persists the result
// when fn returns nil
func (m *Manifest) Mutate(fn func(*Doc) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return m.save(doc)
}

func (m *Manifest) load() (Doc, error) {
	raw, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return Doc{Uploads: []domain.Upload{}}, nil
	}
	if err != nil {
		return Doc{}, perr.Wrapf(err, perr.ErrorCodeStorage, "read manifest %s", m.path)
	}

	var doc Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Doc{}, perr.Wrapf(err, perr.ErrorCodeStorage, "manifest %s is invalid JSON", m.path)
	}
	if doc.Uploads == nil {
		doc.Uploads = []domain.Upload{}
	}
	return doc, nil
}

func (m *Manifest) save(doc Doc) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "create manifest dir for %s", m.path)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "encode manifest")
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "write manifest %s", m.path)
	}
	return nil
}
