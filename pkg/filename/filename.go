// Package filename derives report file names.
package filename

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
)

// Options control License name generation.
type Options struct {
	// Dir is prepended to the generated name when set.
	Dir string

	// Timestamp appends the generation time before the extension.
	Timestamp bool

	// Now is the clock used for Timestamp. Defaults to time.Now.
	Now func() time.Time
}

// License returns licensereport_<app>_<sandbox>_<version>.xlsx with spaces
// replaced by underscores. Absent metadata fields leave empty segments.
func License(meta finding.ReportMetadata, opts Options) string {
	parts := []string{
		defaults.LicenseReportPrefix,
		meta.ApplicationName,
		meta.SandboxName,
		meta.Version,
	}
	if opts.Timestamp {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		parts = append(parts, now().Format(defaults.TimestampLayout))
	}

	name := strings.ReplaceAll(strings.Join(parts, "_"), " ", "_")
	name = sanitize(name) + defaults.LicenseReportExt
	if opts.Dir != "" {
		return filepath.Join(opts.Dir, name)
	}
	return name
}

// Vulnerability returns override when set, otherwise the fixed report name
// for format (defaults.FormatPDF or anything else for HTML).
func Vulnerability(format, override string) string {
	if override != "" {
		return override
	}
	if format == defaults.FormatPDF {
		return defaults.VulnerabilityPDFFile
	}
	return defaults.VulnerabilityHTMLFile
}

// sanitize replaces path separators so metadata cannot escape Dir.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, name)
}
