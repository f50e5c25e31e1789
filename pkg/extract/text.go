package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/iohelper"
)

// sectionPattern captures the Vulnerabilities table up to the first blank
// line or the next known section marker.
var sectionPattern = regexp.MustCompile(
	`(?s)Vulnerabilities\n(.*?)(\n{2,}|No misconfigurations found|No secrets found|Policy Results)`)

// minRowTokens is the smallest row that maps onto the record fields.
const minRowTokens = 4

// ExtractVulnerabilitySection returns the trimmed body of the
// Vulnerabilities section, header line included. Content without the
// section returns finding.ErrSectionNotFound.
func ExtractVulnerabilitySection(content string) (string, error) {
	content = normalizeNewlines(content)
	m := sectionPattern.FindStringSubmatch(content)
	if m == nil {
		return "", finding.ErrSectionNotFound
	}
	return strings.TrimSpace(m[1]), nil
}

// ParseScanTable parses the Vulnerabilities section of a scan table.
//
// Rows are split on whitespace at most len(headers)-1 times so free text
// in the last column stays whole. Field positions depend only on the token
// count: rows with more than five tokens carry a fixed-in version at index
// 2, shorter rows do not. This follows the scanner's current layout and
// breaks if columns are added or removed. Rows with fewer than four tokens
// are skipped and logged.
func ParseScanTable(content string, logger *slog.Logger) (*finding.VulnerabilityTable, error) {
	logger = orDefault(logger)

	section, err := ExtractVulnerabilitySection(content)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(section, "\n")
	table := &finding.VulnerabilityTable{
		Headers: strings.Fields(lines[0]),
		Records: make([]finding.VulnerabilityRecord, 0, len(lines)-1),
	}

	for i, line := range lines[1:] {
		cols := fieldsN(line, len(table.Headers)-1)
		if len(cols) < minRowTokens {
			table.Skipped++
			logger.Warn("skipping unmappable scan row",
				slog.Int("line", i+2),
				slog.Int("tokens", len(cols)),
				slog.String("row", line))
			continue
		}

		rec := finding.VulnerabilityRecord{
			Name:             cols[0],
			InstalledVersion: cols[1],
			Severity:         finding.Severity(strings.TrimSpace(cols[len(cols)-1])),
		}
		if len(cols) > 5 {
			rec.FixedInVersion = cols[2]
			rec.Type = cols[3]
			rec.VulnerabilityID = cols[4]
		} else {
			rec.Type = cols[2]
			rec.VulnerabilityID = cols[3]
		}

		if !table.Tally.Add(rec.Severity) {
			logger.Debug("unknown severity",
				slog.String("severity", string(rec.Severity)),
				slog.String("id", rec.VulnerabilityID))
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// ParseScanFile reads a saved scan table from path and parses it.
func ParseScanFile(path string, logger *slog.Logger) (*finding.VulnerabilityTable, error) {
	data, err := iohelper.ReadFile(path, iohelper.ScanOutputMaxSize)
	if err != nil {
		return nil, fmt.Errorf("read scan output: %w", err)
	}
	table, err := ParseScanTable(string(data), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// fieldsN splits s around runs of whitespace, performing at most n splits.
// The final field keeps its inner and trailing whitespace. A negative n
// means no limit.
func fieldsN(s string, n int) []string {
	if n < 0 {
		return strings.Fields(s)
	}

	var out []string
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	for rest != "" {
		if len(out) == n {
			out = append(out, rest)
			break
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			out = append(out, rest)
			break
		}
		out = append(out, rest[:end])
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	return out
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
