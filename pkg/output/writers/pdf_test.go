package writers

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generatePDF(t *testing.T, config PDFConfig, report *VulnerabilityReport) []byte {
	t.Helper()
	w := NewPDFWriter(config)
	w.noCompress = true // keep text searchable in raw bytes

	var buf bytes.Buffer
	require.NoError(t, w.Render(&buf, report))
	return buf.Bytes()
}

func pageCount(t *testing.T, raw []byte) int {
	t.Helper()
	n, err := pdfapi.PageCount(bytes.NewReader(raw), nil)
	require.NoError(t, err)
	return n
}

func TestPDFWriter_Valid(t *testing.T) {
	t.Parallel()

	raw := generatePDF(t, PDFConfig{}, sampleReport())
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
	require.NoError(t, pdfapi.Validate(bytes.NewReader(raw), nil))
	assert.Equal(t, 1, pageCount(t, raw))
}

func TestPDFWriter_Content(t *testing.T) {
	t.Parallel()

	raw := string(generatePDF(t, PDFConfig{}, sampleReport()))

	for _, want := range []string{
		"Incident Dashboard",
		"libfoo",
		"GHSA-AAAA-BBBB",
		"Critical",
		"Vulnerability",
		"https://vulners.com/osv/OSV:CVE-2024-0001",
		"00000000-0000-4000-8000-000000000001",
	} {
		assert.Contains(t, raw, want)
	}
}

func TestPDFWriter_PaginatesLongTables(t *testing.T) {
	t.Parallel()

	table := &finding.VulnerabilityTable{Headers: sampleTable().Headers}
	for i := 0; i < 80; i++ {
		r := finding.VulnerabilityRecord{
			Name:             fmt.Sprintf("pkg-%02d", i),
			InstalledVersion: "1.0",
			Type:             "npm",
			VulnerabilityID:  fmt.Sprintf("CVE-2024-%04d", i),
			Severity:         finding.Medium,
		}
		table.Records = append(table.Records, r)
		table.Tally.Add(r.Severity)
	}

	raw := generatePDF(t, PDFConfig{}, NewVulnerabilityReport(table, testTime))
	require.NoError(t, pdfapi.Validate(bytes.NewReader(raw), nil))
	assert.Greater(t, pageCount(t, raw), 1)
	assert.Contains(t, string(raw), "pkg-79")
}

func TestPDFWriter_EmptyTable(t *testing.T) {
	t.Parallel()

	table := &finding.VulnerabilityTable{Headers: []string{"NAME", "SEVERITY"}}
	raw := generatePDF(t, PDFConfig{}, NewVulnerabilityReport(table, testTime))
	require.NoError(t, pdfapi.Validate(bytes.NewReader(raw), nil))
	// unexpected header count falls back to the fixed labels
	assert.Contains(t, string(raw), "Fixed In")
}

func TestPDFWriter_MissingFontFallsBack(t *testing.T) {
	t.Parallel()

	cfg := PDFConfig{FontFile: filepath.Join(t.TempDir(), "missing.ttf")}
	raw := generatePDF(t, cfg, sampleReport())
	require.NoError(t, pdfapi.Validate(bytes.NewReader(raw), nil))
	assert.Contains(t, string(raw), "Helvetica")
}

func TestPDFWriter_NilReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Error(t, NewPDFWriter(PDFConfig{}).Render(&buf, nil))
	assert.Zero(t, buf.Len())
}

func TestHexRGB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#EC4899", 0xEC, 0x48, 0x99},
		{"000000", 0, 0, 0},
		{"#FFF", 0, 0, 0},
		{"bg-red-500", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := hexRGB(tt.in)
		assert.Equal(t, []int{tt.r, tt.g, tt.b}, []int{r, g, b}, tt.in)
	}
}
