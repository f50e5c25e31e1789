package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/raudyagdel/veracli/pkg/config"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/jsonutil"
	"github.com/raudyagdel/veracli/pkg/output/writers"
	"github.com/raudyagdel/veracli/pkg/scanner"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

func newTestRunner(t *testing.T, cfg *config.Config, opts ...RunnerOption) *Runner {
	t.Helper()
	opts = append([]RunnerOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	r, err := NewRunner(cfg, opts...)
	require.NoError(t, err)
	return r
}

func testdata(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return p
}

func TestCommands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Command{"license", "vuln", "render", "config"}, Commands())
}

func TestNewRunner_InvalidTaxonomy(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Taxonomy.RiskRatings["9"] = taxonomy.RiskLevel{}
	_, err := NewRunner(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunLicense(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := newTestRunner(t, nil)
	jsonPath := filepath.Join(dir, "licenses.json")
	metricsPath := filepath.Join(dir, "veracli.prom")

	res, err := r.RunLicense(context.Background(), LicenseOptions{
		XMLPath:     testdata(t, "detailedreport.xml"),
		OutDir:      dir,
		JSONPath:    jsonPath,
		MetricsPath: metricsPath,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "licensereport_Demo_App_Dev_Sandbox_12_Mar_2024_Static.xlsx"), res.Path)
	assert.Equal(t, "Demo App", res.Metadata.ApplicationName)
	require.Len(t, res.Records, 4)
	assert.Equal(t, "GNU General Public License v3.0", res.Records[0].LicenseName, "highest risk sorts first")
	assert.Equal(t, "GPL-3.0", res.Records[0].SPDXID)
	assert.Equal(t, "4", res.Records[0].RiskRating)
	assert.Equal(t, map[string]int{"High": 1, "Low": 2, "Unknown": 1}, res.RiskCounts)

	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Licenses")
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc writers.LicenseDocument
	require.NoError(t, jsonutil.Unmarshal(data, &doc))
	assert.Len(t, doc.Licenses, 4)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `veracli_licenses{risk="High"} 1`)
}

func TestRunLicense_Timestamp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := newTestRunner(t, nil).RunLicense(context.Background(), LicenseOptions{
		XMLPath:   testdata(t, "detailedreport.xml"),
		OutDir:    dir,
		Timestamp: true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Path, "_2024-03-12_09-30-00.xlsx"), res.Path)
	assert.FileExists(t, res.Path)
}

func TestRunLicense_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		xml     string
		wantErr error
	}{
		{"schema mismatch", "wrongroot.xml", finding.ErrSchemaMismatch},
		{"missing file", "absent.xml", os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			_, err := newTestRunner(t, nil).RunLicense(context.Background(), LicenseOptions{
				XMLPath: testdata(t, tt.xml),
				OutDir:  dir,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no output on failure")
		})
	}

	_, err := newTestRunner(t, nil).RunLicense(context.Background(), LicenseOptions{})
	assert.Error(t, err)
}

func TestRunRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "report.html")
	res, err := newTestRunner(t, nil).RunRender(context.Background(), RenderOptions{
		Input:    testdata(t, "scan_output.txt"),
		Output:   out,
		JSONPath: filepath.Join(dir, "vulns.json"),
	})
	require.NoError(t, err)
	assert.Equal(t, out, res.Path)
	assert.Nil(t, res.Scan)
	assert.Equal(t, 1, res.Report.Table.Tally.Get(finding.Critical))
	assert.Equal(t, 2, res.Report.Table.Tally.Get(finding.Low))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://vulners.com/osv/OSV:")
	assert.FileExists(t, filepath.Join(dir, "vulns.json"))
}

func TestRunRender_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format, theme string
		magic         string
	}{
		{"html", "bootstrap", "<!DOCTYPE html>"},
		{"pdf", "", "%PDF-"},
	}
	for _, tt := range tests {
		t.Run(tt.format+tt.theme, func(t *testing.T) {
			t.Parallel()
			out := filepath.Join(t.TempDir(), "report."+tt.format)
			_, err := newTestRunner(t, nil).RunRender(context.Background(), RenderOptions{
				Input:  testdata(t, "scan_output.txt"),
				Output: out,
				Format: tt.format,
				Theme:  tt.theme,
			})
			require.NoError(t, err)
			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), tt.magic))
		})
	}
}

func TestRunRender_MissingSectionWritesNothing(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "report.html")
	_, err := newTestRunner(t, nil).RunRender(context.Background(), RenderOptions{
		Input:  testdata(t, "scan_missing_section.txt"),
		Output: out,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, finding.ErrSectionNotFound)
	assert.NoFileExists(t, out)
}

func TestRunRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := newTestRunner(t, nil).RunRender(context.Background(), RenderOptions{
		Input:  testdata(t, "scan_output.txt"),
		Output: filepath.Join(t.TempDir(), "x"),
		Format: "docx",
	})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

// fakeVeracode writes a script that copies fixture to the --output file and
// exits with code. Tests using it do not run in parallel (ETXTBSY).
func fakeVeracode(t *testing.T, fixture string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "veracode")
	script := fmt.Sprintf(`#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output" ]; then out="$2"; fi
  shift
done
cat %q > "$out"
exit %d
`, fixture, code)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunVuln(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scanner.Executable = fakeVeracode(t, testdata(t, "scan_output.txt"), 1)

	scanOut := filepath.Join(dir, "scan.txt")
	report := filepath.Join(dir, "vulnerabilities_report.html")
	metricsPath := filepath.Join(dir, "veracli.prom")

	res, err := newTestRunner(t, cfg).RunVuln(context.Background(), VulnOptions{
		Type:       "directory",
		Source:     "./src",
		ScanOutput: scanOut,
		Cleanup:    true,
		Render:     RenderOptions{Output: report, MetricsPath: metricsPath},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Scan)
	assert.Equal(t, 1, res.Scan.ExitCode)
	assert.FileExists(t, report)
	assert.NoFileExists(t, scanOut, "cleanup removes the scan text")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `veracli_vulnerabilities{severity="Critical"} 1`)
	assert.Contains(t, string(prom), "veracli_scan_exit_code 1")
}

func TestRunVuln_ExitPolicy(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		exitCheck string
		wantErr   bool
	}{
		{"inverted zero fails", 0, "", true},
		{"inverted nonzero passes", 3, "", false},
		{"conventional zero passes", 0, "conventional", false},
		{"conventional nonzero fails", 2, "conventional", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := config.Default()
			cfg.Scanner.Executable = fakeVeracode(t, testdata(t, "scan_output.txt"), tt.code)
			report := filepath.Join(dir, "report.html")

			_, err := newTestRunner(t, cfg).RunVuln(context.Background(), VulnOptions{
				Type:       "directory",
				Source:     ".",
				ScanOutput: filepath.Join(dir, "scan.txt"),
				ExitCheck:  tt.exitCheck,
				Render:     RenderOptions{Output: report},
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, finding.ErrToolFailure)
				assert.NoFileExists(t, report)
				return
			}
			require.NoError(t, err)
			assert.FileExists(t, report)
		})
	}
}

func TestRunVuln_MissingHeaderWritesNoReport(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scanner.Executable = fakeVeracode(t, testdata(t, "scan_missing_section.txt"), 1)
	report := filepath.Join(dir, "report.html")

	_, err := newTestRunner(t, cfg).RunVuln(context.Background(), VulnOptions{
		Type:       "directory",
		Source:     ".",
		ScanOutput: filepath.Join(dir, "scan.txt"),
		Render:     RenderOptions{Output: report},
	})
	assert.ErrorIs(t, err, finding.ErrSectionNotFound)
	assert.NoFileExists(t, report)
}

func TestRunVuln_ToolMissing(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Scanner.Executable = "veracode-definitely-not-installed"
	_, err := newTestRunner(t, cfg).RunVuln(context.Background(), VulnOptions{
		Type:       "directory",
		Source:     ".",
		ScanOutput: filepath.Join(t.TempDir(), "scan.txt"),
	})
	assert.ErrorIs(t, err, finding.ErrToolMissing)
}

func TestRunVuln_BadExitCheck(t *testing.T) {
	t.Parallel()

	_, err := newTestRunner(t, nil).RunVuln(context.Background(), VulnOptions{
		Type:      "directory",
		Source:    ".",
		ExitCheck: "sometimes",
	})
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestRunVuln_ScannerOptionsApplied(t *testing.T) {
	cfg := config.Default()
	cfg.Scanner.Executable = fakeVeracode(t, testdata(t, "scan_output.txt"), 0)
	dir := t.TempDir()

	r := newTestRunner(t, cfg, WithScannerOptions(scanner.WithExitCheck(scanner.ExitCheckConventional)))
	_, err := r.RunVuln(context.Background(), VulnOptions{
		Type:       "directory",
		Source:     ".",
		ScanOutput: filepath.Join(dir, "scan.txt"),
		Render:     RenderOptions{Output: filepath.Join(dir, "r.html")},
	})
	require.NoError(t, err)
}
