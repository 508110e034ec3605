package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Descanonge/neba-sub001/application"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "neba",
		Short: "Inspect the parameters and datasets of a neba program",
		Long: `Inspect the parameters and datasets of a demonstration neba program.

Parameters are given after the command, as flags named after their dotted key.
Configuration files are loaded with --config-file.

Examples:
  neba show --year=2005 --data.root=/data/sst
  neba describe --config-file=params.toml
  neba write-config params.yaml --method=median`,
		SilenceUsage: true,
	}

	root.AddCommand(newShowCmd(), newWriteConfigCmd(), newDescribeCmd(), newVersionCmd())

	return root
}

// startApplication starts the demonstration application with args. When help is
// requested, the parameters usage is printed and ok is false.
func startApplication(cmd *cobra.Command, args []string) (app *application.Application, ok bool, err error) {
	app, err = application.New(demoSchema())
	if err != nil {
		return nil, false, err
	}

	err = app.Start(args)
	if errors.Is(err, application.ErrHelp) {
		fmt.Fprintf(cmd.OutOrStdout(), "Parameters of %s:\n%s", app.Name(), app.Usage())

		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return app, true, nil
}
