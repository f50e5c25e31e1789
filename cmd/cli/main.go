// Command veracli turns Veracode scan results into reports: a license
// workbook from a detailed XML report and a vulnerability dashboard from a
// table-format scan.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/raudyagdel/veracli/pkg/cli"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/ui"
)

func main() {
	ctx, cancel := cli.SignalContext(defaults.ShutdownGrace)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run dispatches args to a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	prev := ui.SetOutput(stderr)
	defer ui.SetOutput(prev)

	if len(args) < 1 {
		printUsage(stderr)
		return defaults.ExitUserError
	}

	var err error
	switch args[0] {
	case string(cli.CommandLicense):
		err = runLicense(ctx, args[1:], stderr)
	case string(cli.CommandVuln), "scan":
		err = runVuln(ctx, args[1:], stderr)
	case string(cli.CommandRender):
		err = runRender(ctx, args[1:], stderr)
	case string(cli.CommandConfig):
		err = runConfig(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		printUsage(stdout)
		return defaults.ExitSuccess
	case "-v", "--version", "version":
		fmt.Fprintf(stdout, "%s %s (commit %s, built %s)\n", defaults.ToolName, ui.Version, ui.Commit, ui.BuildDate)
		return defaults.ExitSuccess
	default:
		err = usageErrorf("unknown command %q", args[0])
	}
	return exitCode(err, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, ui.SectionStyle.Render("USAGE"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s <command> [flags]\n\n", defaults.ToolName)
	fmt.Fprintln(w, ui.SectionStyle.Render("COMMANDS"))
	fmt.Fprintln(w)
	commands := []struct{ name, help string }{
		{"license ", "Build the license workbook from a detailed XML report"},
		{"vuln    ", "Run veracode scan and render the vulnerability report"},
		{"render  ", "Render the vulnerability report from saved scan output"},
		{"config  ", "Write (--init) or check (--validate) a YAML config file"},
		{"version ", "Print version information"},
	}
	for _, c := range commands {
		fmt.Fprintf(w, "  %s  %s\n", ui.StatValueStyle.Render(c.name), c.help)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Run '%s <command> --help' for command flags.\n", defaults.ToolName)
}
