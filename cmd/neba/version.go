package main

import (
	"fmt"

	"github.com/spf13/cobra"

	neba "github.com/Descanonge/neba-sub001"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "neba %s (framework %s, compiled %s)\n",
				neba.Version, neba.FrameworkVersion, neba.CompiledAt)
		},
	}
}
