package module

import (
	"meridian/internal/platform/config"
)

// Options for the ingest module
type Options struct {
	StorageDir        string
	ManifestPath      string
	MaxBytes          int64
	AllowedExtensions []string
}

// FromConfig reads ingest options from UPLOAD_ prefixed env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("UPLOAD_")
	return Options{
		StorageDir:        c.MayString("STORAGE_DIR", "data/uploads"),
		ManifestPath:      c.MayString("MANIFEST_PATH", "data/uploads/manifest.json"),
		MaxBytes:          int64(c.MayInt("MAX_BYTES", 10<<20)),
		AllowedExtensions: c.MayCSV("ALLOWED_EXTENSIONS", []string{".csv"}),
	}
}
