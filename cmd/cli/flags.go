package main

import (
	"io"
	"log/slog"

	"github.com/raudyagdel/veracli/pkg/cli"
	"github.com/raudyagdel/veracli/pkg/config"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/ui"
	"github.com/spf13/pflag"
)

// commonFlags are registered on every report command.
type commonFlags struct {
	configPath  string
	verbose     bool
	noColor     bool
	silent      bool
	jsonPath    string
	metricsPath string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file (default "+defaults.ConfigFile+" when present)")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&c.noColor, "no-color", false, "Disable colored output")
	fs.BoolVarP(&c.silent, "silent", "s", false, "Only print errors")
	fs.StringVar(&c.jsonPath, "json", "", "Also write the extracted records as JSON to this file")
	fs.StringVar(&c.metricsPath, "metrics-file", "", "Write Prometheus textfile metrics to this file")
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	return fs
}

// parse parses args and converts flag errors into usage errors.
func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return err
		}
		// pflag has already printed the usage
		return usageErrorf("%v", err)
	}
	if fs.NArg() > 0 {
		return withUsage(usageErrorf("unexpected arguments: %v", fs.Args()), fs)
	}
	return nil
}

// setup applies the UI switches and builds the runner.
func (c *commonFlags) setup(stderr io.Writer) (*cli.Runner, error) {
	ui.SetSilent(c.silent)
	ui.SetNoColor(c.noColor)

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	path := c.configPath
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(defaults.ConfigFile)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", slog.String("path", path))

	return cli.NewRunner(cfg, cli.WithLogger(logger))
}
