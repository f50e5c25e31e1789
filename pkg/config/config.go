// Package config loads the optional YAML configuration. Values in a file
// are decoded over Default, so a file only needs the keys it changes. The
// two taxonomy tables are the exception: a table present in the file
// replaces the built-in one as a whole.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/iohelper"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
	"gopkg.in/yaml.v3"
)

// Config holds all report and scanner settings.
type Config struct {
	// AssetDir is the base for relative icon and font paths.
	AssetDir string `yaml:"asset_dir" json:"asset_dir"`

	// Taxonomy replaces the built-in risk and severity tables. Each table
	// left out of the file keeps its built-in value.
	Taxonomy taxonomy.Spec `yaml:"taxonomy" json:"taxonomy"`

	License       LicenseConfig       `yaml:"license" json:"license"`
	Vulnerability VulnerabilityConfig `yaml:"vulnerability" json:"vulnerability"`
	Scanner       ScannerConfig       `yaml:"scanner" json:"scanner"`
}

// LicenseConfig controls the license workbook.
type LicenseConfig struct {
	// OutputDir prefixes the generated workbook name.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Timestamp appends the generation time to the workbook name.
	Timestamp bool `yaml:"timestamp" json:"timestamp"`

	FontFamily string  `yaml:"font_family" json:"font_family"`
	RowHeight  float64 `yaml:"row_height" json:"row_height"`
	IconSize   int     `yaml:"icon_size" json:"icon_size"`
	OddFill    string  `yaml:"odd_fill" json:"odd_fill"`
	EvenFill   string  `yaml:"even_fill" json:"even_fill"`
	LinkColor  string  `yaml:"link_color" json:"link_color"`
}

// VulnerabilityConfig controls the vulnerability report.
type VulnerabilityConfig struct {
	// Format is html or pdf.
	Format string `yaml:"format" json:"format"`

	// Theme selects the HTML styling: tailwind or bootstrap.
	Theme string `yaml:"theme" json:"theme"`

	// Output overrides the fixed report file name.
	Output string `yaml:"output" json:"output"`

	// LookupURL is a format string receiving the upper-cased ID.
	LookupURL string `yaml:"lookup_url" json:"lookup_url"`

	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`

	// FontFile is the TTF used by the PDF format.
	FontFile string `yaml:"font_file" json:"font_file"`
}

// ScannerConfig controls the external scan.
type ScannerConfig struct {
	Executable string        `yaml:"executable" json:"executable"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`

	// ExitCheck is inverted (exit 0 is failure) or conventional.
	ExitCheck string `yaml:"exit_check" json:"exit_check"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Taxonomy: taxonomy.DefaultSpec(),
		License: LicenseConfig{
			FontFamily: defaults.FontFamily,
			RowHeight:  defaults.LicenseRowHeight,
			IconSize:   defaults.LicenseIconSize,
			OddFill:    defaults.LicenseOddFill,
			EvenFill:   defaults.LicenseEvenFill,
			LinkColor:  defaults.LicenseLinkColor,
		},
		Vulnerability: VulnerabilityConfig{
			Format:    defaults.FormatHTML,
			Theme:     taxonomy.ThemeTailwind,
			LookupURL: defaults.VulnerabilityLookupURL,
			Title:     defaults.DashboardTitle,
			Subtitle:  defaults.DashboardSubtitle,
			FontFile:  defaults.FontFile,
		},
		Scanner: ScannerConfig{
			Executable: defaults.ScannerExecutable,
			Timeout:    defaults.ScanTimeout,
			ExitCheck:  defaults.ExitCheckInverted,
		},
	}
}

// Load reads a YAML configuration from path over Default and validates it.
func Load(path string) (*Config, error) {
	data, err := iohelper.ReadFile(path, iohelper.ConfigMaxSize)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	cfg.Taxonomy = taxonomy.Spec{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	builtin := taxonomy.DefaultSpec()
	if cfg.Taxonomy.RiskRatings == nil {
		cfg.Taxonomy.RiskRatings = builtin.RiskRatings
	}
	if cfg.Taxonomy.SeverityColors == nil {
		cfg.Taxonomy.SeverityColors = builtin.SeverityColors
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional loads path when it exists and returns Default otherwise.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return iohelper.WriteFileAtomic(path, data)
}

// Validate checks cfg for values the renderers and scanner cannot use.
// All problems are reported in one error wrapping ErrInvalidConfig or
// ErrMissingRequired.
func Validate(cfg *Config) error {
	var (
		errs    []string
		missing bool
	)

	switch cfg.Vulnerability.Format {
	case defaults.FormatHTML, defaults.FormatPDF:
	default:
		errs = append(errs, fmt.Sprintf("invalid vulnerability.format %q: must be html or pdf", cfg.Vulnerability.Format))
	}

	switch cfg.Vulnerability.Theme {
	case taxonomy.ThemeTailwind, taxonomy.ThemeBootstrap:
	default:
		errs = append(errs, fmt.Sprintf("invalid vulnerability.theme %q: must be tailwind or bootstrap", cfg.Vulnerability.Theme))
	}

	if n, ok := countPlaceholders(cfg.Vulnerability.LookupURL); !ok || n != 1 {
		errs = append(errs, fmt.Sprintf("invalid vulnerability.lookup_url %q: must contain exactly one %%s and no other verb (use %%%% for a literal %%)", cfg.Vulnerability.LookupURL))
	}

	switch cfg.Scanner.ExitCheck {
	case defaults.ExitCheckInverted, defaults.ExitCheckConventional:
	default:
		errs = append(errs, fmt.Sprintf("invalid scanner.exit_check %q: must be inverted or conventional", cfg.Scanner.ExitCheck))
	}

	if cfg.Scanner.Executable == "" {
		missing = true
		errs = append(errs, "scanner.executable is required")
	}
	if cfg.Scanner.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("invalid scanner.timeout %s: must not be negative", cfg.Scanner.Timeout))
	}

	if cfg.License.RowHeight <= 0 {
		errs = append(errs, fmt.Sprintf("invalid license.row_height %v: must be positive", cfg.License.RowHeight))
	}
	if cfg.License.IconSize <= 0 {
		errs = append(errs, fmt.Sprintf("invalid license.icon_size %d: must be positive", cfg.License.IconSize))
	}
	for name, v := range map[string]string{
		"license.odd_fill":   cfg.License.OddFill,
		"license.even_fill":  cfg.License.EvenFill,
		"license.link_color": cfg.License.LinkColor,
	} {
		if !isHexColor(v) {
			errs = append(errs, fmt.Sprintf("invalid %s %q: must be a 6-digit hex colour", name, v))
		}
	}

	if _, err := taxonomy.New(cfg.Taxonomy); err != nil {
		errs = append(errs, err.Error())
	}
	var themes []string
	switch cfg.Vulnerability.Theme {
	case taxonomy.ThemeTailwind, taxonomy.ThemeBootstrap:
		themes = append(themes, cfg.Vulnerability.Theme)
	}
	if cfg.Vulnerability.Format == defaults.FormatPDF {
		themes = append(themes, taxonomy.ThemePDF)
	}
	for _, theme := range themes {
		if _, ok := cfg.Taxonomy.SeverityColors[theme]; !ok {
			errs = append(errs, fmt.Sprintf("taxonomy.severity_colors has no %q table", theme))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	sentinel := ErrInvalidConfig
	if missing && len(errs) == 1 {
		sentinel = ErrMissingRequired
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(errs, "; "))
}

// BuildTaxonomy builds the taxonomy described by c.
func (c *Config) BuildTaxonomy() (*taxonomy.Taxonomy, error) {
	return taxonomy.New(c.Taxonomy)
}

// AssetPath resolves a configured asset path against AssetDir.
func (c *Config) AssetPath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.AssetDir == "" {
		return p
	}
	return filepath.Join(c.AssetDir, p)
}

// countPlaceholders counts %s verbs in a lookup URL. ok is false when the
// URL holds any other verb or a trailing %.
func countPlaceholders(format string) (n int, ok bool) {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i == len(format) {
			return n, false
		}
		switch format[i] {
		case '%':
		case 's':
			n++
		default:
			return n, false
		}
	}
	return n, true
}

func isHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
