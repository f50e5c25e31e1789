package classify

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  int
	}{
		{"0", 0},
		{"1", 1},
		{"4", 4},
		{"12", 12},
		{"None", UnknownRank},
		{"", UnknownRank},
		{"-1", UnknownRank},
		{"4a", UnknownRank},
		{" 3", UnknownRank},
		{"99999999999999999999999", UnknownRank},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RiskRank(tt.token))
		})
	}
}

func TestSortLicenses_HighBeforeLow(t *testing.T) {
	t.Parallel()

	c := New(nil)
	in := []finding.LicenseRecord{
		{ComponentFileName: "a.jar", LicenseName: "MIT", RiskRating: "2"},
		{ComponentFileName: "b.jar", LicenseName: "GPL", RiskRating: "4"},
	}
	out := c.SortLicenses(in)

	require.Len(t, out, 2)
	assert.Equal(t, "b.jar", out[0].ComponentFileName)
	assert.Equal(t, "a.jar", out[1].ComponentFileName)
	assert.Equal(t, "High", c.Risk(out[0].RiskRating).Name)
	assert.Equal(t, "Low", c.Risk(out[1].RiskRating).Name)

	// input untouched
	assert.Equal(t, "a.jar", in[0].ComponentFileName)
}

func TestSortLicenses_NameBreaksTiesAndUnknownLast(t *testing.T) {
	t.Parallel()

	c := New(nil)
	in := []finding.LicenseRecord{
		{ComponentFileName: "1", LicenseName: "Zlib", RiskRating: "2"},
		{ComponentFileName: "2", LicenseName: "", RiskRating: "None"},
		{ComponentFileName: "3", LicenseName: "Apache", RiskRating: "2"},
		{ComponentFileName: "4", LicenseName: "BSD", RiskRating: "x"},
		{ComponentFileName: "5", LicenseName: "AGPL", RiskRating: "0"},
		{ComponentFileName: "6", LicenseName: "", RiskRating: "2"},
	}
	out := c.SortLicenses(in)

	var order []string
	for _, r := range out {
		order = append(order, r.ComponentFileName)
	}
	assert.Equal(t, []string{"6", "3", "1", "5", "2", "4"}, order)
}

func TestSortLicenses_StableForEqualKeys(t *testing.T) {
	t.Parallel()

	c := New(nil)
	in := []finding.LicenseRecord{
		{ComponentFileName: "first", LicenseName: "MIT", RiskRating: "3"},
		{ComponentFileName: "second", LicenseName: "MIT", RiskRating: "3"},
		{ComponentFileName: "third", LicenseName: "MIT", RiskRating: "3"},
	}
	out := c.SortLicenses(in)
	assert.Equal(t, in, out)
}

// For any pair in the output, a higher numeric rating precedes a lower one.
func TestSortLicenses_OrderInvariant(t *testing.T) {
	t.Parallel()

	tokens := []string{"0", "1", "2", "3", "4", "None", "", "abc", "10"}
	names := []string{"", "MIT", "GPL-3.0", "Apache-2.0", "BSD"}
	rng := rand.New(rand.NewSource(7))

	c := New(nil)
	for round := 0; round < 50; round++ {
		var in []finding.LicenseRecord
		for i := 0; i < 30; i++ {
			in = append(in, finding.LicenseRecord{
				ComponentFileName: fmt.Sprintf("c%d", i),
				LicenseName:       names[rng.Intn(len(names))],
				RiskRating:        tokens[rng.Intn(len(tokens))],
			})
		}
		out := c.SortLicenses(in)
		require.Len(t, out, len(in))
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				ri, rj := RiskRank(out[i].RiskRating), RiskRank(out[j].RiskRating)
				assert.GreaterOrEqual(t, ri, rj, "round %d: %v before %v", round, out[i], out[j])
				if ri == rj {
					assert.LessOrEqual(t, out[i].LicenseName, out[j].LicenseName)
				}
			}
		}
	}
}

func TestRiskCounts(t *testing.T) {
	t.Parallel()

	c := New(nil)
	counts := c.RiskCounts([]finding.LicenseRecord{
		{RiskRating: "4"}, {RiskRating: "4"}, {RiskRating: "2"}, {RiskRating: "None"}, {RiskRating: "1"},
	})
	assert.Equal(t, map[string]int{"High": 2, "Low": 1, "Unknown": 2}, counts)
}

func TestTally_OnlyKnownSeveritiesCounted(t *testing.T) {
	t.Parallel()

	c := New(nil)
	records := []finding.VulnerabilityRecord{
		{Severity: finding.Critical},
		{Severity: finding.High},
		{Severity: finding.High},
		{Severity: "Negligible"},
		{Severity: "high"},
		{Severity: finding.Low},
	}
	tally := c.Tally(records)

	known := 0
	for _, r := range records {
		if r.Severity.IsKnown() {
			known++
		}
	}
	assert.Equal(t, known, tally.Total())
	assert.Equal(t, 2, tally.Get(finding.High))
	assert.Equal(t, 0, tally.Get(finding.Medium))
}

func TestSeverityColor_UsesInjectedTaxonomy(t *testing.T) {
	t.Parallel()

	spec := taxonomy.DefaultSpec()
	spec.SeverityColors[taxonomy.ThemeTailwind]["High"] = "bg-purple-700"
	tax, err := taxonomy.New(spec)
	require.NoError(t, err)

	c := New(tax)
	assert.Equal(t, "bg-purple-700", c.SeverityColor(taxonomy.ThemeTailwind, finding.High))
	assert.Equal(t, "black", c.SeverityColor(taxonomy.ThemeTailwind, "Other"))
	assert.Same(t, tax, c.Taxonomy())
}
