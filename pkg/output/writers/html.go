package writers

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/raudyagdel/veracli/pkg/classify"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
	"github.com/raudyagdel/veracli/templates"
)

// HTMLConfig configures the HTML dashboard writer.
type HTMLConfig struct {
	// Theme is tailwind (default) or bootstrap.
	Theme string

	// LookupURL is a format string receiving the upper-cased ID.
	LookupURL string

	// Classifier provides severity colours. Defaults to the built-in
	// taxonomy.
	Classifier *classify.Classifier
}

// HTMLWriter renders the vulnerability dashboard from an embedded
// template. Output is pretty-printed.
type HTMLWriter struct {
	config HTMLConfig
	tmpl   *template.Template
}

// NewHTMLWriter parses the template for config.Theme.
func NewHTMLWriter(config HTMLConfig) (*HTMLWriter, error) {
	if config.Theme == "" {
		config.Theme = taxonomy.ThemeTailwind
	}
	config.Classifier = classifierOrDefault(config.Classifier)

	name := "report/" + config.Theme + ".html.tmpl"
	src, err := templates.FS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown theme %q: %w", config.Theme, err)
	}

	tmpl, err := template.New(config.Theme).Funcs(sprig.FuncMap()).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &HTMLWriter{config: config, tmpl: tmpl}, nil
}

// Format implements VulnerabilityWriter.
func (hw *HTMLWriter) Format() string { return FormatHTML }

type htmlBadge struct {
	Label string
	Count int
	Color string
	Icon  string
}

type htmlRow struct {
	Name      string
	Installed string
	FixedIn   string
	Type      string
	ID        string
	Link      string
	Severity  string
	Color     string
}

type htmlView struct {
	ID        string
	Title     string
	Subtitle  string
	Generated time.Time
	Badges    []htmlBadge
	Headers   []string
	Rows      []htmlRow
}

func (hw *HTMLWriter) view(report *VulnerabilityReport) htmlView {
	theme := hw.config.Theme
	c := hw.config.Classifier
	table := report.Table

	v := htmlView{
		ID:        report.ID,
		Title:     report.Title,
		Subtitle:  report.Subtitle,
		Generated: report.GeneratedAt,
		Headers:   table.Headers,
		Rows:      make([]htmlRow, 0, len(table.Records)),
	}
	for _, s := range finding.KnownSeverities {
		v.Badges = append(v.Badges, htmlBadge{
			Label: string(s),
			Count: table.Tally.Get(s),
			Color: c.SeverityColor(theme, s),
			Icon:  badgeIcons[s],
		})
	}
	for _, r := range table.Records {
		v.Rows = append(v.Rows, htmlRow{
			Name:      r.Name,
			Installed: r.InstalledVersion,
			FixedIn:   r.FixedInVersion,
			Type:      r.Type,
			ID:        strings.ToUpper(r.VulnerabilityID),
			Link:      lookupLink(hw.config.LookupURL, r.VulnerabilityID),
			Severity:  string(r.Severity),
			Color:     c.SeverityColor(theme, r.Severity),
		})
	}
	return v
}

// Render implements VulnerabilityWriter.
func (hw *HTMLWriter) Render(w io.Writer, report *VulnerabilityReport) error {
	if report == nil || report.Table == nil {
		return fmt.Errorf("html: empty report")
	}

	var buf bytes.Buffer
	if err := hw.tmpl.Execute(&buf, hw.view(report)); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	pretty, err := Prettify(buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(pretty)
	return err
}
