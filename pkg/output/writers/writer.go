// Package writers renders license and vulnerability findings to files.
package writers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raudyagdel/veracli/pkg/classify"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/iohelper"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
)

// Vulnerability report formats.
const (
	FormatHTML = defaults.FormatHTML
	FormatPDF  = defaults.FormatPDF
)

// VulnerabilityReport is the input of a VulnerabilityWriter.
type VulnerabilityReport struct {
	ID          string
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Table       *finding.VulnerabilityTable
}

// NewVulnerabilityReport wraps table with a fresh report ID and the default
// dashboard title.
func NewVulnerabilityReport(table *finding.VulnerabilityTable, now time.Time) *VulnerabilityReport {
	return &VulnerabilityReport{
		ID:          uuid.NewString(),
		Title:       defaults.DashboardTitle,
		Subtitle:    defaults.DashboardSubtitle,
		GeneratedAt: now,
		Table:       table,
	}
}

// VulnerabilityWriter renders a vulnerability report.
type VulnerabilityWriter interface {
	// Render writes the complete document to w.
	Render(w io.Writer, report *VulnerabilityReport) error

	// Format returns the output format name.
	Format() string
}

// Compile-time interface checks.
var (
	_ VulnerabilityWriter = (*HTMLWriter)(nil)
	_ VulnerabilityWriter = (*PDFWriter)(nil)
)

// VulnerabilityOptions selects and configures a VulnerabilityWriter.
type VulnerabilityOptions struct {
	Format     string
	Theme      string
	LookupURL  string
	FontFile   string
	Classifier *classify.Classifier
	Logger     *slog.Logger
}

// NewVulnerabilityWriter returns the writer for opts.Format.
func NewVulnerabilityWriter(opts VulnerabilityOptions) (VulnerabilityWriter, error) {
	switch opts.Format {
	case FormatHTML, "":
		return NewHTMLWriter(HTMLConfig{
			Theme:      opts.Theme,
			LookupURL:  opts.LookupURL,
			Classifier: opts.Classifier,
		})
	case FormatPDF:
		return NewPDFWriter(PDFConfig{
			LookupURL:  opts.LookupURL,
			FontFile:   opts.FontFile,
			Classifier: opts.Classifier,
			Logger:     opts.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown report format %q: must be html or pdf", opts.Format)
	}
}

// WriteVulnerabilityFile renders report into memory and writes it to path
// only when rendering succeeds.
func WriteVulnerabilityFile(path string, vw VulnerabilityWriter, report *VulnerabilityReport) error {
	var buf bytes.Buffer
	if err := vw.Render(&buf, report); err != nil {
		return fmt.Errorf("render %s report: %w", vw.Format(), err)
	}
	if err := iohelper.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// lookupLink formats the vulnerability lookup URL for an upper-cased ID.
func lookupLink(format, id string) string {
	if format == "" {
		format = defaults.VulnerabilityLookupURL
	}
	return fmt.Sprintf(format, strings.ToUpper(id))
}

// badgeIcons are the SVG path shapes of the summary badges.
var badgeIcons = map[finding.Severity]string{
	finding.Critical: "M4 7v10c0 2.21 3.582 4 8 4s8-1.79 8-4V7",
	finding.High:     "M8 7v8a2 2 0 002 2h6",
	finding.Medium:   "M13 7a4 4 0 01-8 0",
	finding.Low:      "M12 4.354a4 4 0 110 5.292",
}

func classifierOrDefault(c *classify.Classifier) *classify.Classifier {
	if c != nil {
		return c
	}
	return classify.New(taxonomy.Default())
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
