package module

import (
	"meridian/internal/platform/config"
)

// Options for the normalization module
type Options struct {
	MaxErrors     int
	SilverDir     string
	QuarantineDir string
	ReportDir     string
}

// FromConfig reads normalization options from NORMALIZATION_ prefixed env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("NORMALIZATION_")
	return Options{
		MaxErrors:     c.MayInt("MAX_ERRORS", 100),
		SilverDir:     c.MayString("SILVER_DIR", "data/silver"),
		QuarantineDir: c.MayString("QUARANTINE_DIR", "data/quarantine"),
		ReportDir:     c.MayString("REPORT_DIR", "data/reports"),
	}
}
