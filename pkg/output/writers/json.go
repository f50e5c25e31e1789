package writers

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/raudyagdel/veracli/pkg/classify"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/jsonutil"
)

// LicenseDocument is the JSON sidecar of the license pipeline.
type LicenseDocument struct {
	ReportID    string                  `json:"report_id"`
	Tool        string                  `json:"tool"`
	Version     string                  `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	Metadata    finding.ReportMetadata  `json:"metadata"`
	RiskCounts  map[string]int          `json:"risk_counts"`
	Licenses    []finding.LicenseRecord `json:"licenses"`
}

// VulnerabilityDocument is the JSON sidecar of the vulnerability pipeline.
type VulnerabilityDocument struct {
	ReportID        string                        `json:"report_id"`
	Tool            string                        `json:"tool"`
	Version         string                        `json:"version"`
	GeneratedAt     time.Time                     `json:"generated_at"`
	Headers         []string                      `json:"headers"`
	Tally           map[string]int                `json:"tally"`
	Skipped         int                           `json:"skipped_rows"`
	Vulnerabilities []finding.VulnerabilityRecord `json:"vulnerabilities"`
}

// NewLicenseDocument builds the sidecar for records in classifier order.
func NewLicenseDocument(c *classify.Classifier, meta finding.ReportMetadata, records []finding.LicenseRecord, now time.Time) *LicenseDocument {
	c = classifierOrDefault(c)
	sorted := c.SortLicenses(records)
	if sorted == nil {
		sorted = []finding.LicenseRecord{}
	}
	return &LicenseDocument{
		ReportID:    uuid.NewString(),
		Tool:        defaults.ToolName,
		Version:     defaults.Version,
		GeneratedAt: now.UTC(),
		Metadata:    meta,
		RiskCounts:  c.RiskCounts(records),
		Licenses:    sorted,
	}
}

// NewVulnerabilityDocument builds the sidecar for report, sharing its ID.
func NewVulnerabilityDocument(report *VulnerabilityReport) *VulnerabilityDocument {
	table := report.Table
	records := table.Records
	if records == nil {
		records = []finding.VulnerabilityRecord{}
	}
	return &VulnerabilityDocument{
		ReportID:        report.ID,
		Tool:            defaults.ToolName,
		Version:         defaults.Version,
		GeneratedAt:     report.GeneratedAt.UTC(),
		Headers:         table.Headers,
		Tally:           table.Tally.Map(),
		Skipped:         table.Skipped,
		Vulnerabilities: records,
	}
}

// JSONWriter writes sidecar documents.
type JSONWriter struct{}

// Encode writes doc as indented JSON to w.
func (JSONWriter) Encode(w io.Writer, doc any) error {
	return jsonutil.Encode(w, doc)
}

// WriteFile writes doc to path atomically.
func (JSONWriter) WriteFile(path string, doc any) error {
	if err := jsonutil.WriteFile(path, doc); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
