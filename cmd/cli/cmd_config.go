package main

import (
	"fmt"
	"io"

	"github.com/raudyagdel/veracli/pkg/config"
	"github.com/raudyagdel/veracli/pkg/ui"
	"gopkg.in/yaml.v3"
)

func runConfig(args []string, stdout, stderr io.Writer) error {
	var initPath, validatePath string
	var show bool
	fs := newFlagSet("config", stderr)
	fs.StringVar(&initPath, "init", "", "Write the default configuration to this file")
	fs.StringVar(&validatePath, "validate", "", "Validate this configuration file")
	fs.BoolVar(&show, "show", false, "Print the default configuration")

	if err := parse(fs, args); err != nil {
		return err
	}

	switch {
	case initPath != "":
		if err := config.Save(config.Default(), initPath); err != nil {
			return err
		}
		ui.PrintSuccess("Default configuration written to " + initPath)
	case validatePath != "":
		if _, err := config.Load(validatePath); err != nil {
			return err
		}
		ui.PrintSuccess(validatePath + " is valid")
	case show:
		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	default:
		return withUsage(usageErrorf("one of --init, --validate or --show is required"), fs)
	}
	return nil
}
