package main

import (
	"context"
	"fmt"
	"io"

	"github.com/raudyagdel/veracli/pkg/cli"
	"github.com/raudyagdel/veracli/pkg/ui"
)

func runLicense(ctx context.Context, args []string, stderr io.Writer) error {
	var (
		common commonFlags
		opts   cli.LicenseOptions
	)
	fs := newFlagSet("license", stderr)
	fs.StringVar(&opts.XMLPath, "xml", "", "Path to the Veracode detailed XML report (required)")
	fs.StringVar(&opts.OutDir, "out-dir", "", "Directory for the workbook")
	fs.BoolVar(&opts.Timestamp, "timestamp", false, "Append the generation time to the workbook name")
	common.register(fs)

	if err := parse(fs, args); err != nil {
		return err
	}
	if opts.XMLPath == "" {
		return withUsage(usageErrorf("--xml is required"), fs)
	}
	opts.JSONPath = common.jsonPath
	opts.MetricsPath = common.metricsPath

	runner, err := common.setup(stderr)
	if err != nil {
		return err
	}
	ui.PrintBanner()

	res, err := runner.RunLicense(ctx, opts)
	if err != nil {
		return fmt.Errorf("license report: %w", err)
	}

	ui.PrintLicenseSummary(res.Metadata, res.RiskCounts)
	ui.PrintSaved("License report", res.Path)
	if opts.JSONPath != "" {
		ui.PrintSaved("JSON", opts.JSONPath)
	}
	return nil
}
