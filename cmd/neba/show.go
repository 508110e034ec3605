package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Descanonge/neba-sub001/config"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [--format=yaml|toml|json] [parameters]",
		Short: "Print the resolved parameters",
		// Parameters are parsed by the application.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, args := extractFormat(args)

			app, ok, err := startApplication(cmd, args)
			if err != nil || !ok {
				return err
			}

			out, err := config.FormatSection(app.Section(), "parameters."+format)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("writing parameters: %w", err)
			}

			return nil
		},
	}
}

// extractFormat removes the --format flag from args, defaulting to yaml.
func extractFormat(args []string) (string, []string) {
	format := "yaml"
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		if args[i] == "--format" && i+1 < len(args) {
			format = args[i+1]
			i++

			continue
		}

		if value, ok := strings.CutPrefix(args[i], "--format="); ok {
			format = value

			continue
		}

		rest = append(rest, args[i])
	}

	return format, rest
}

func newWriteConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-config FILE [parameters]",
		Short: "Write the resolved parameters to a configuration file",
		Long: `Write the resolved parameters to a configuration file, in the format of its
extension. Existing files are not overwritten unless --overwrite is given.`,
		DisableFlagParsing: true,
		Args:               cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, params := args[0], args[1:]

			overwrite := false
			rest := params[:0:0]

			for _, p := range params {
				if p == "--overwrite" {
					overwrite = true

					continue
				}

				rest = append(rest, p)
			}

			app, ok, err := startApplication(cmd, rest)
			if err != nil || !ok {
				return err
			}

			err = app.WriteConfigFile(filename, overwrite)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "parameters written to %s\n", filename)

			return nil
		},
	}
}
