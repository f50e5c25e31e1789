package main

import (
	"context"
	"fmt"
	"io"

	"github.com/raudyagdel/veracli/pkg/cli"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/ui"
	"github.com/spf13/pflag"
)

// registerRender adds the report flags shared by vuln and render.
func registerRender(fs *pflag.FlagSet, opts *cli.RenderOptions) {
	fs.StringVar(&opts.Format, "format", "", "Report format: html or pdf (default from config, html)")
	fs.StringVar(&opts.Theme, "theme", "", "HTML theme: tailwind or bootstrap (default from config, tailwind)")
	fs.StringVar(&opts.Output, "report", "", "Report file (default "+defaults.VulnerabilityHTMLFile+")")
}

func runVuln(ctx context.Context, args []string, stderr io.Writer) error {
	var (
		common commonFlags
		opts   cli.VulnOptions
	)
	fs := newFlagSet("vuln", stderr)
	fs.StringVar(&opts.Type, "type", "", "Scan type passed to veracode scan, e.g. directory or image (required)")
	fs.StringVar(&opts.Source, "source", "", "Scan source passed to veracode scan (required)")
	fs.StringVarP(&opts.ScanOutput, "output", "o", defaults.ScanOutputFile, "File the scanner writes its table output to")
	fs.StringVar(&opts.ExitCheck, "exit-check", "", "Scanner exit status policy: inverted or conventional (default from config, inverted)")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "Abort the scan after this long (default from config, "+defaults.ScanTimeout.String()+")")
	fs.BoolVar(&opts.Cleanup, "cleanup", false, "Remove the scan output file after rendering")
	registerRender(fs, &opts.Render)
	common.register(fs)

	if err := parse(fs, args); err != nil {
		return err
	}
	if opts.Type == "" || opts.Source == "" {
		return withUsage(usageErrorf("--type and --source are required"), fs)
	}
	opts.Render.JSONPath = common.jsonPath
	opts.Render.MetricsPath = common.metricsPath

	runner, err := common.setup(stderr)
	if err != nil {
		return err
	}
	ui.PrintBanner()
	ui.PrintInfo(fmt.Sprintf("Scanning %s %s", opts.Type, opts.Source))

	res, err := runner.RunVuln(ctx, opts)
	if err != nil {
		return fmt.Errorf("vulnerability report: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Scan finished in %s", res.Scan.Duration.Round(1e6)))
	reportDone(res, opts.Render.JSONPath)
	return nil
}

func runRender(ctx context.Context, args []string, stderr io.Writer) error {
	var (
		common commonFlags
		opts   cli.RenderOptions
	)
	fs := newFlagSet("render", stderr)
	fs.StringVarP(&opts.Input, "input", "i", defaults.ScanOutputFile, "Saved veracode scan table output")
	registerRender(fs, &opts)
	common.register(fs)

	if err := parse(fs, args); err != nil {
		return err
	}
	opts.JSONPath = common.jsonPath
	opts.MetricsPath = common.metricsPath

	runner, err := common.setup(stderr)
	if err != nil {
		return err
	}
	ui.PrintBanner()

	res, err := runner.RunRender(ctx, opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.Input, err)
	}
	reportDone(res, opts.JSONPath)
	return nil
}

func reportDone(res *cli.VulnResult, jsonPath string) {
	ui.PrintVulnerabilitySummary(res.Report.Table)
	ui.PrintSaved("Report", res.Path)
	if jsonPath != "" {
		ui.PrintSaved("JSON", jsonPath)
	}
}
