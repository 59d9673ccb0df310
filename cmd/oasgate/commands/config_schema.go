package commands

import (
	"github.com/spf13/cobra"
)

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of the proxy configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := GenerateProxyConfigSchema()
			if err != nil {
				return err
			}
			Writef(cmd.OutOrStdout(), "%s\n", data)
			return nil
		},
	}
}
