package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasgate"
)

func newVersionCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if verbose {
				Writef(cmd.OutOrStdout(), "%s\n", oasgate.BuildInfo())
				return
			}
			Writef(cmd.OutOrStdout(), "oasgate v%s\n", oasgate.Version())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print all build metadata")
	return cmd
}
