package writers

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

func sampleTable() *finding.VulnerabilityTable {
	t := &finding.VulnerabilityTable{
		Headers: []string{"NAME", "INSTALLED", "FIXED-IN", "TYPE", "VULNERABILITY", "SEVERITY"},
		Records: []finding.VulnerabilityRecord{
			{Name: "libfoo", InstalledVersion: "1.0.0", FixedInVersion: "1.0.1", Type: "go-module", VulnerabilityID: "ghsa-aaaa-bbbb", Severity: finding.High},
			{Name: "libbar", InstalledVersion: "2.3.4", Type: "npm", VulnerabilityID: "cve-2024-0001", Severity: finding.Critical},
			{Name: "openssl", InstalledVersion: "3.0.1", FixedInVersion: "3.0.7", Type: "apk", VulnerabilityID: "CVE-2022-3602", Severity: finding.Low},
			{Name: "busybox", InstalledVersion: "1.36", Type: "apk", VulnerabilityID: "CVE-2023-1111", Severity: "Negligible"},
		},
	}
	for _, r := range t.Records {
		t.Tally.Add(r.Severity)
	}
	return t
}

func sampleReport() *VulnerabilityReport {
	r := NewVulnerabilityReport(sampleTable(), testTime)
	r.ID = "00000000-0000-4000-8000-000000000001"
	return r
}

// writePNG creates a w x h PNG in dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}
