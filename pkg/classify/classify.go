// Package classify maps raw records onto the taxonomy: risk levels and
// ordering for licenses, colours and counts for vulnerabilities.
package classify

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
)

// UnknownRank is the rank of a rating token that is not a plain integer.
const UnknownRank = -1

// Classifier applies one taxonomy. It holds no mutable state and may be
// shared freely.
type Classifier struct {
	tax *taxonomy.Taxonomy
}

// New returns a Classifier over tax. A nil tax selects taxonomy.Default().
func New(tax *taxonomy.Taxonomy) *Classifier {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Classifier{tax: tax}
}

// Taxonomy returns the taxonomy the classifier was built with.
func (c *Classifier) Taxonomy() *taxonomy.Taxonomy {
	return c.tax
}

// Risk returns the display level for a rating token.
func (c *Classifier) Risk(token string) taxonomy.RiskLevel {
	return c.tax.Risk(token)
}

// RiskRank returns the numeric value of a rating token made only of ASCII
// digits, or UnknownRank for anything else ("None", "", "-1", "4a").
// A digit-only token ranks numerically even when the taxonomy does not
// name it, so "1" sorts between "0" and "2".
func RiskRank(token string) int {
	if token == "" {
		return UnknownRank
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return UnknownRank
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		// digit string too long for int
		return UnknownRank
	}
	return n
}

// SortLicenses returns a copy of records ordered by descending risk rank,
// then ascending license name. Records equal on both keys keep their input
// order.
func (c *Classifier) SortLicenses(records []finding.LicenseRecord) []finding.LicenseRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b finding.LicenseRecord) int {
		return cmp.Or(
			cmp.Compare(RiskRank(b.RiskRating), RiskRank(a.RiskRating)),
			cmp.Compare(a.LicenseName, b.LicenseName),
		)
	})
	return out
}

// RiskCounts returns the number of records per risk display name.
func (c *Classifier) RiskCounts(records []finding.LicenseRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[c.tax.Risk(r.RiskRating).Name]++
	}
	return counts
}

// SeverityColor returns the colour token for s under theme.
func (c *Classifier) SeverityColor(theme string, s finding.Severity) string {
	return c.tax.Color(theme, s)
}

// Tally counts the known severities of records.
func (c *Classifier) Tally(records []finding.VulnerabilityRecord) finding.SeverityTally {
	var t finding.SeverityTally
	for _, r := range records {
		t.Add(r.Severity)
	}
	return t
}
