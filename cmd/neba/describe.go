package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	neba "github.com/Descanonge/neba-sub001"
	"github.com/Descanonge/neba-sub001/application"
	"github.com/Descanonge/neba-sub001/data"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "describe [parameters]",
		Short:              "Describe the demonstration dataset and the files it finds",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, ok, err := startApplication(cmd, args)
			if err != nil || !ok {
				return err
			}

			return describe(cmd, app)
		},
	}
}

func describe(cmd *cobra.Command, app *application.Application) error {
	recursive, _ := app.Section().GetOr("data.recursive", false).(bool)

	var di *data.Interface

	program := neba.NewApp(
		neba.WithLogLevel(app.LoggerConfig().Level),
		neba.WithModules(fx.Supply(app)),
		neba.WithInterface(demoDefinition(recursive)),
		neba.WithModules(fx.Invoke(func(d *data.Interface) { di = d })),
	)

	err := program.Start()
	if err != nil {
		return err
	}

	defer func() { _ = program.Stop() }()

	files, err := di.GetSource()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, di.Describe())

	for _, f := range files {
		fmt.Fprintln(out, f)
	}

	return nil
}
