// Package taxonomy holds the risk and severity lookup tables used to
// classify records.
//
// A Taxonomy is built once from a Spec (the built-in DefaultSpec or one
// decoded from the YAML config) and never changes afterwards. Accessors
// return copies so callers cannot mutate the tables.
package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
)

// Rendering themes that carry a severity colour table.
const (
	ThemeTailwind  = "tailwind"
	ThemeBootstrap = "bootstrap"
	ThemePDF       = "pdf"
)

// DefaultColorKey is the key of a theme's fallback colour in Spec.
const DefaultColorKey = "default"

// UnknownRiskName is the display name for unrecognised rating tokens.
const UnknownRiskName = "Unknown"

// ErrInvalidTaxonomy indicates a Spec that cannot be turned into a Taxonomy.
var ErrInvalidTaxonomy = errors.New("taxonomy: invalid taxonomy")

// RiskLevel is the canonical display form of a license risk rating.
// Icon is a path to a PNG asset, empty when the level has no icon.
type RiskLevel struct {
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// HasIcon reports whether the level names an icon asset.
func (r RiskLevel) HasIcon() bool {
	return r.Icon != ""
}

// Spec is the serialisable form of a taxonomy.
type Spec struct {
	// RiskRatings maps a raw risk_rating token to its level.
	RiskRatings map[string]RiskLevel `yaml:"risk_ratings" json:"risk_ratings"`

	// SeverityColors maps theme -> severity name -> colour token.
	// Each theme may carry a "default" entry used for unknown severities.
	SeverityColors map[string]map[string]string `yaml:"severity_colors" json:"severity_colors"`
}

// DefaultSpec returns the built-in tables. The gap at rating "1" is
// intentional: the upstream scanner never emits it.
func DefaultSpec() Spec {
	return Spec{
		RiskRatings: map[string]RiskLevel{
			"0": {Name: "Unassessable", Icon: defaults.IconUnassessable},
			"2": {Name: "Low", Icon: defaults.IconLow},
			"3": {Name: "Medium", Icon: defaults.IconMedium},
			"4": {Name: "High", Icon: defaults.IconHigh},
		},
		SeverityColors: map[string]map[string]string{
			ThemeTailwind: {
				"Critical":      "bg-pink-500",
				"High":          "bg-red-500",
				"Medium":        "bg-orange-500",
				"Low":           "bg-yellow-500",
				DefaultColorKey: "black",
			},
			ThemeBootstrap: {
				"Critical":      "bg-danger",
				"High":          "bg-warning",
				"Medium":        "bg-info",
				"Low":           "bg-success",
				DefaultColorKey: "bg-dark",
			},
			ThemePDF: {
				"Critical":      "#EC4899",
				"High":          "#EF4444",
				"Medium":        "#F97316",
				"Low":           "#EAB308",
				DefaultColorKey: "#000000",
			},
		},
	}
}

// Taxonomy is an immutable set of lookup tables.
type Taxonomy struct {
	risks  map[string]RiskLevel
	colors map[string]map[finding.Severity]string
	// fallback colour per theme
	fallback map[string]string
}

// Default returns the taxonomy built from DefaultSpec.
func Default() *Taxonomy {
	t, err := New(DefaultSpec())
	if err != nil {
		panic(err) // built-in tables are always valid
	}
	return t
}

// New validates spec and copies it into a Taxonomy.
func New(spec Spec) (*Taxonomy, error) {
	var errs []string

	t := &Taxonomy{
		risks:    make(map[string]RiskLevel, len(spec.RiskRatings)),
		colors:   make(map[string]map[finding.Severity]string, len(spec.SeverityColors)),
		fallback: make(map[string]string, len(spec.SeverityColors)),
	}

	for token, level := range spec.RiskRatings {
		if strings.TrimSpace(level.Name) == "" {
			errs = append(errs, fmt.Sprintf("risk rating %q has no name", token))
			continue
		}
		t.risks[token] = level
	}

	for theme, table := range spec.SeverityColors {
		colors := make(map[finding.Severity]string, len(table))
		for sev, color := range table {
			if sev == DefaultColorKey {
				t.fallback[theme] = color
				continue
			}
			if !finding.Severity(sev).IsKnown() {
				errs = append(errs, fmt.Sprintf("theme %q: unknown severity %q", theme, sev))
				continue
			}
			colors[finding.Severity(sev)] = color
		}
		t.colors[theme] = colors
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, fmt.Errorf("%w: %s", ErrInvalidTaxonomy, strings.Join(errs, "; "))
	}
	return t, nil
}

// Risk returns the level for a raw rating token. Unrecognised tokens,
// including "1", "None" and non-numeric text, map to Unknown with no icon.
func (t *Taxonomy) Risk(token string) RiskLevel {
	if level, ok := t.risks[token]; ok {
		return level
	}
	return RiskLevel{Name: UnknownRiskName}
}

// RiskLevels returns a copy of the rating table.
func (t *Taxonomy) RiskLevels() map[string]RiskLevel {
	out := make(map[string]RiskLevel, len(t.risks))
	for k, v := range t.risks {
		out[k] = v
	}
	return out
}

// HasTheme reports whether a colour table exists for theme.
func (t *Taxonomy) HasTheme(theme string) bool {
	_, ok := t.colors[theme]
	return ok
}

// Color returns the colour token for severity under theme, or the theme's
// fallback for severities it does not list.
func (t *Taxonomy) Color(theme string, s finding.Severity) string {
	if c, ok := t.colors[theme][s]; ok {
		return c
	}
	return t.fallback[theme]
}

// Spec returns the serialisable form of t.
func (t *Taxonomy) Spec() Spec {
	spec := Spec{
		RiskRatings:    t.RiskLevels(),
		SeverityColors: make(map[string]map[string]string, len(t.colors)),
	}
	for theme, table := range t.colors {
		m := make(map[string]string, len(table)+1)
		for s, c := range table {
			m[string(s)] = c
		}
		if fb, ok := t.fallback[theme]; ok {
			m[DefaultColorKey] = fb
		}
		spec.SeverityColors[theme] = m
	}
	return spec
}
