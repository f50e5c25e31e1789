// Package cli runs the veracli report pipelines. Each Run function takes
// fully parsed options and returns what it produced; flag parsing and
// console output belong to cmd/cli.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/raudyagdel/veracli/pkg/classify"
	"github.com/raudyagdel/veracli/pkg/config"
	"github.com/raudyagdel/veracli/pkg/extract"
	"github.com/raudyagdel/veracli/pkg/filename"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/metrics"
	"github.com/raudyagdel/veracli/pkg/output/writers"
	"github.com/raudyagdel/veracli/pkg/scanner"
)

// Command represents a CLI command.
type Command string

const (
	CommandLicense Command = "license"
	CommandVuln    Command = "vuln"
	CommandRender  Command = "render"
	CommandConfig  Command = "config"
)

// Commands lists the subcommands in help order.
func Commands() []Command {
	return []Command{CommandLicense, CommandVuln, CommandRender, CommandConfig}
}

// Runner carries the state shared by every pipeline.
type Runner struct {
	config     *config.Config
	classifier *classify.Classifier
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time

	// scannerOpts are appended to the options built from config.
	scannerOpts []scanner.Option
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithScannerOptions adds options applied after the configured ones.
func WithScannerOptions(opts ...scanner.Option) RunnerOption {
	return func(r *Runner) { r.scannerOpts = append(r.scannerOpts, opts...) }
}

// NewRunner builds a Runner from a validated configuration. A nil cfg
// selects config.Default().
func NewRunner(cfg *config.Config, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	tax, err := cfg.BuildTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	r := &Runner{
		config:     cfg,
		classifier: classify.New(tax),
		logger:     slog.Default(),
		metrics:    metrics.NewRecorder(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Metrics returns the recorder fed by the pipelines.
func (r *Runner) Metrics() *metrics.Recorder {
	return r.metrics
}

// Classifier returns the classifier built from the configured taxonomy.
func (r *Runner) Classifier() *classify.Classifier {
	return r.classifier
}

// =============================================================================
// License report
// =============================================================================

// LicenseOptions for the license pipeline.
type LicenseOptions struct {
	XMLPath string `json:"xml_path"`

	// OutDir and Timestamp override the configured values when set.
	OutDir    string `json:"out_dir"`
	Timestamp bool   `json:"timestamp"`

	JSONPath    string `json:"json_path"`
	MetricsPath string `json:"metrics_path"`
}

// LicenseResult describes a written license workbook.
type LicenseResult struct {
	Path       string
	Metadata   finding.ReportMetadata
	Records    []finding.LicenseRecord
	RiskCounts map[string]int
}

// RunLicense converts a detailed report into the license workbook.
func (r *Runner) RunLicense(ctx context.Context, opts LicenseOptions) (*LicenseResult, error) {
	if opts.XMLPath == "" {
		return nil, errors.New("xml path is required")
	}
	start := time.Now()

	doc, err := extract.ParseDetailedReportFile(opts.XMLPath)
	if err != nil {
		return nil, err
	}
	meta := extract.ExtractMetadata(doc)
	records := extract.ExtractLicenses(doc)
	r.logger.Debug("licenses extracted",
		slog.String("xml", opts.XMLPath),
		slog.Int("licenses", len(records)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lc := r.config.License
	dir := lc.OutputDir
	if opts.OutDir != "" {
		dir = opts.OutDir
	}
	path := filename.License(meta, filename.Options{
		Dir:       dir,
		Timestamp: lc.Timestamp || opts.Timestamp,
		Now:       r.now,
	})

	xw := writers.NewXLSXWriter(r.classifier, writers.XLSXConfig{
		FontFamily: lc.FontFamily,
		RowHeight:  lc.RowHeight,
		IconSize:   lc.IconSize,
		OddFill:    lc.OddFill,
		EvenFill:   lc.EvenFill,
		LinkColor:  lc.LinkColor,
		AssetDir:   r.config.AssetDir,
		Logger:     r.logger,
	})
	if err := xw.WriteFile(path, records); err != nil {
		return nil, err
	}

	res := &LicenseResult{
		Path:       path,
		Metadata:   meta,
		Records:    r.classifier.SortLicenses(records),
		RiskCounts: r.classifier.RiskCounts(records),
	}

	if opts.JSONPath != "" {
		sidecar := writers.NewLicenseDocument(r.classifier, meta, records, r.now())
		if err := (writers.JSONWriter{}).WriteFile(opts.JSONPath, sidecar); err != nil {
			return nil, err
		}
	}

	r.metrics.ObserveLicenses(res.RiskCounts)
	r.metrics.ObserveReport(metrics.ReportLicense, time.Since(start), r.now())
	if err := r.writeMetrics(opts.MetricsPath); err != nil {
		return nil, err
	}
	return res, nil
}

// =============================================================================
// Vulnerability report
// =============================================================================

// RenderOptions for rendering a saved scan output.
type RenderOptions struct {
	Input string `json:"input"`

	// Output, Format and Theme override the configured values when set.
	Output string `json:"output"`
	Format string `json:"format"`
	Theme  string `json:"theme"`

	JSONPath    string `json:"json_path"`
	MetricsPath string `json:"metrics_path"`
}

// VulnResult describes a written vulnerability report.
type VulnResult struct {
	Path   string
	Report *writers.VulnerabilityReport

	// Scan is set when the pipeline ran the scanner.
	Scan *scanner.Result
}

// RunRender parses a scan output file and writes the vulnerability report.
// Nothing is written when the input has no Vulnerabilities section.
func (r *Runner) RunRender(ctx context.Context, opts RenderOptions) (*VulnResult, error) {
	if opts.Input == "" {
		return nil, errors.New("input path is required")
	}
	start := time.Now()

	table, err := extract.ParseScanFile(opts.Input, r.logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vc := r.config.Vulnerability
	format := orValue(opts.Format, vc.Format)
	vw, err := writers.NewVulnerabilityWriter(writers.VulnerabilityOptions{
		Format:     format,
		Theme:      orValue(opts.Theme, vc.Theme),
		LookupURL:  vc.LookupURL,
		FontFile:   r.config.AssetPath(vc.FontFile),
		Classifier: r.classifier,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	report := writers.NewVulnerabilityReport(table, r.now())
	report.Title = orValue(vc.Title, report.Title)
	report.Subtitle = orValue(vc.Subtitle, report.Subtitle)

	path := filename.Vulnerability(format, orValue(opts.Output, vc.Output))
	if err := writers.WriteVulnerabilityFile(path, vw, report); err != nil {
		return nil, err
	}
	r.logger.Debug("vulnerability report written",
		slog.String("path", path),
		slog.Int("records", len(table.Records)),
		slog.Int("skipped", table.Skipped))

	if opts.JSONPath != "" {
		if err := (writers.JSONWriter{}).WriteFile(opts.JSONPath, writers.NewVulnerabilityDocument(report)); err != nil {
			return nil, err
		}
	}

	r.metrics.ObserveVulnerabilities(table)
	r.metrics.ObserveReport(metrics.ReportVulnerability, time.Since(start), r.now())
	if err := r.writeMetrics(opts.MetricsPath); err != nil {
		return nil, err
	}
	return &VulnResult{Path: path, Report: report}, nil
}

// VulnOptions for the scan-and-render pipeline.
type VulnOptions struct {
	Type   string `json:"type"`
	Source string `json:"source"`

	// ScanOutput is where the scanner writes its table text.
	ScanOutput string `json:"scan_output"`

	// Timeout and ExitCheck override the configured values when set.
	Timeout   time.Duration `json:"timeout"`
	ExitCheck string        `json:"exit_check"`

	// Cleanup removes ScanOutput after a successful render.
	Cleanup bool `json:"cleanup"`

	Render RenderOptions `json:"render"`
}

// RunVuln runs the external scanner and renders its output.
func (r *Runner) RunVuln(ctx context.Context, opts VulnOptions) (*VulnResult, error) {
	sc := r.config.Scanner
	check, err := scanner.ParseExitCheck(orValue(opts.ExitCheck, sc.ExitCheck))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	timeout := sc.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	s := scanner.New(append([]scanner.Option{
		scanner.WithExecutable(sc.Executable),
		scanner.WithExitCheck(check),
		scanner.WithTimeout(timeout),
		scanner.WithLogger(r.logger),
	}, r.scannerOpts...)...)

	scan, err := s.Scan(ctx, scanner.Request{
		Type:   opts.Type,
		Source: opts.Source,
		Output: opts.ScanOutput,
	})
	r.metrics.ObserveScan(scan.Duration, scan.ExitCode)
	if err != nil {
		return nil, err
	}

	render := opts.Render
	render.Input = scan.Output
	res, err := r.RunRender(ctx, render)
	if err != nil {
		return nil, err
	}
	res.Scan = &scan

	if opts.Cleanup {
		if err := os.Remove(scan.Output); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("cannot remove scan output",
				slog.String("path", scan.Output),
				slog.String("error", err.Error()))
		}
	}
	return res, nil
}

func (r *Runner) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := r.metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func orValue(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
