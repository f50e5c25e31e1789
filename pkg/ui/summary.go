package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raudyagdel/veracli/pkg/finding"
)

const boxWidth = 44

// PrintLicenseSummary prints the report identity and the number of
// licenses per risk level, most common first.
func PrintLicenseSummary(meta finding.ReportMetadata, counts map[string]int) {
	if IsSilent() {
		return
	}
	w := writer()

	PrintSection("license report")
	PrintConfigLine("App Name", orDash(meta.ApplicationName))
	PrintConfigLine("Sandbox Name", orDash(meta.SandboxName))
	PrintConfigLine("Version", orDash(meta.Version))
	fmt.Fprintln(w)

	risks := make([]string, 0, len(counts))
	total := 0
	for risk, n := range counts {
		risks = append(risks, risk)
		total += n
	}
	sort.Slice(risks, func(i, j int) bool {
		if counts[risks[i]] != counts[risks[j]] {
			return counts[risks[i]] > counts[risks[j]]
		}
		return risks[i] < risks[j]
	})

	b := box()
	fmt.Fprintln(w, BracketStyle.Render(b.rule(b.top, boxWidth)))
	printRow(b, "Licenses:", fmt.Sprintf("%d", total), StatValueStyle)
	if len(risks) > 0 {
		fmt.Fprintln(w, BracketStyle.Render(b.rule(b.middle, boxWidth)))
	}
	for _, risk := range risks {
		printRow(b, risk+":", fmt.Sprintf("%d", counts[risk]), RiskStyle(risk))
	}
	fmt.Fprintln(w, BracketStyle.Render(b.rule(b.bottom, boxWidth)))
}

// PrintVulnerabilitySummary prints the severity tally of a parsed table.
func PrintVulnerabilitySummary(table *finding.VulnerabilityTable) {
	if IsSilent() {
		return
	}
	w := writer()

	PrintSection("vulnerability report")
	b := box()
	fmt.Fprintln(w, BracketStyle.Render(b.rule(b.top, boxWidth)))
	printRow(b, "Findings:", fmt.Sprintf("%d", len(table.Records)), StatValueStyle)
	fmt.Fprintln(w, BracketStyle.Render(b.rule(b.middle, boxWidth)))
	for _, s := range finding.KnownSeverities {
		printRow(b, string(s)+":", fmt.Sprintf("%d", table.Tally.Get(s)), SeverityStyle(string(s)))
	}
	if other := len(table.Records) - table.Tally.Total(); other > 0 {
		printRow(b, "Other:", fmt.Sprintf("%d", other), StatLabelStyle)
	}
	fmt.Fprintln(w, BracketStyle.Render(b.rule(b.bottom, boxWidth)))

	if table.Skipped > 0 {
		PrintWarning(fmt.Sprintf("%d scan rows could not be parsed (see log)", table.Skipped))
	}
}

// printRow writes one framed "label value" line padded to the box width.
func printRow(b boxSet, label, value string, valueStyle Style) {
	const labelW = 18
	const inner = boxWidth - 4

	labelPadded := padRight(label, labelW)
	valuePadded := padRight(value, inner-labelW)
	side := BracketStyle.Render(b.side)
	fmt.Fprintf(writer(), "  %s  %s%s%s\n",
		side,
		StatLabelStyle.Render(labelPadded),
		valueStyle.Render(valuePadded),
		side,
	)
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
