package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects UI output for the duration of a test. UI state is
// global, so tests in this package do not run in parallel.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	SetNoColor(true)
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(prev)
		SetSilent(false)
	})
	return &buf
}

func TestVersion(t *testing.T) {
	assert.Equal(t, defaults.Version, Version)
	assert.NotEmpty(t, BuildDate)
	assert.NotEmpty(t, Commit)
}

func TestSetNoColor_NonTerminal(t *testing.T) {
	// go test pipes stderr, so colour stays off even when not requested.
	SetNoColor(false)
	assert.True(t, IsNoColor())
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintSuccess("report saved")
	PrintError("scan failed")
	PrintWarning("icon missing")
	PrintInfo("parsing")

	out := buf.String()
	assert.Contains(t, out, "[+] report saved")
	assert.Contains(t, out, "[X] scan failed")
	assert.Contains(t, out, "[!] icon missing")
	assert.Contains(t, out, "* parsing")
	assert.NotContains(t, out, "\x1b[", "ANSI escapes with colour disabled")
}

func TestPrintSaved(t *testing.T) {
	buf := captureOutput(t)

	PrintSaved("Report", "out/vulnerabilities_report.html")
	assert.Equal(t, "  [+] Report saved to out/vulnerabilities_report.html\n", buf.String())

	buf.Reset()
	SetSilent(true)
	PrintSaved("Report", "hidden.html")
	assert.Empty(t, buf.String())
}

func TestSilentKeepsErrors(t *testing.T) {
	buf := captureOutput(t)
	SetSilent(true)

	PrintSuccess("hidden")
	PrintWarning("hidden")
	PrintInfo("hidden")
	PrintBanner()
	PrintError("shown")

	assert.Equal(t, "  [X] shown\n", buf.String())
}

func TestPrintSection_TitleCase(t *testing.T) {
	buf := captureOutput(t)
	PrintSection("license report")
	assert.Contains(t, buf.String(), "> License Report")
}

func TestPrintBanner(t *testing.T) {
	buf := captureOutput(t)
	PrintBanner()
	assert.Contains(t, buf.String(), "v"+Version)
}

func TestPrintLicenseSummary(t *testing.T) {
	buf := captureOutput(t)

	PrintLicenseSummary(
		finding.ReportMetadata{ApplicationName: "Demo App", Version: "12"},
		map[string]int{"High": 1, "Low": 3, "Unknown": 1},
	)

	out := buf.String()
	assert.Contains(t, out, "App Name:")
	assert.Contains(t, out, "Demo App")
	assert.Contains(t, out, "Sandbox Name:")
	assert.Contains(t, out, "Licenses:")

	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		if strings.HasPrefix(l, "  |") {
			rows = append(rows, l)
			assert.Len(t, []rune(l), boxWidth+2, "row %q", l)
		}
	}
	require.Len(t, rows, 4)
	assert.Contains(t, rows[0], "5")
	assert.Contains(t, rows[1], "Low:")
	assert.Contains(t, rows[2], "High:")
	assert.Contains(t, rows[3], "Unknown:")
}

func TestPrintVulnerabilitySummary(t *testing.T) {
	buf := captureOutput(t)

	table := &finding.VulnerabilityTable{
		Records: make([]finding.VulnerabilityRecord, 4),
		Skipped: 2,
	}
	table.Tally.Add(finding.Critical)
	table.Tally.Add(finding.Low)
	table.Tally.Add(finding.Low)

	PrintVulnerabilitySummary(table)

	out := buf.String()
	assert.Contains(t, out, "> Vulnerability Report")
	assert.Regexp(t, `Critical:\s+1`, out)
	assert.Regexp(t, `High:\s+0`, out)
	assert.Regexp(t, `Low:\s+2`, out)
	assert.Regexp(t, `Other:\s+1`, out)
	assert.Contains(t, out, "[!] 2 scan rows could not be parsed")
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Café", sanitize("Café"))
	assert.Equal(t, "ok ", sanitize("ok ✅"))
	assert.Equal(t, "a?b", sanitize("a\xffb"))
}

func TestBoxRule(t *testing.T) {
	assert.Equal(t, "  +----+", asciiBox.rule(asciiBox.top, 6))
	assert.Equal(t, "  ├────┤", unicodeBox.rule(unicodeBox.middle, 6))

	// captured output is never a terminal
	SetNoColor(true)
	assert.Equal(t, asciiBox, box())
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
	assert.Equal(t, "é ", padRight("é", 2))
}
