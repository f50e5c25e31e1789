package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/raudyagdel/veracli/pkg/config"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/ui"
	"github.com/spf13/pflag"
)

// usageError is a command-line mistake. It prints the command usage and
// exits with defaults.ExitUserError.
type usageError struct {
	msg   string
	usage string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// withUsage attaches the flag set's usage text to a usage error.
func withUsage(err error, fs *pflag.FlagSet) error {
	var ue *usageError
	if errors.As(err, &ue) && ue.usage == "" {
		ue.usage = fs.FlagUsages()
	}
	return err
}

// exitCode prints err and maps it onto the process exit code.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return defaults.ExitSuccess
	}
	if errors.Is(err, pflag.ErrHelp) {
		return defaults.ExitSuccess
	}

	ui.PrintError(err.Error())

	var ue *usageError
	switch {
	case errors.As(err, &ue):
		if ue.usage != "" {
			fmt.Fprintln(stderr)
			fmt.Fprintln(stderr, "Flags:")
			fmt.Fprint(stderr, ue.usage)
		}
		return defaults.ExitUserError
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrMissingRequired):
		return defaults.ExitUserError
	case errors.Is(err, finding.ErrToolMissing):
		ui.PrintHelp("install the Veracode CLI or set scanner.executable in the config file")
		return defaults.ExitToolMissing
	case errors.Is(err, finding.ErrSchemaMismatch),
		errors.Is(err, finding.ErrSectionNotFound),
		errors.Is(err, finding.ErrToolFailure):
		return defaults.ExitInputError
	default:
		return defaults.ExitInternalError
	}
}
