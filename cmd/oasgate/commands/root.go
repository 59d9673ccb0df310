package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/oasgate/parser"
)

// globalFlags are shared by every command.
type globalFlags struct {
	LogLevel string
}

func (g *globalFlags) logger(cmd *cobra.Command) (parser.Logger, error) {
	return newLogger(g.LogLevel, cmd.ErrOrStderr())
}

// NewRootCommand builds the oasgate command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "oasgate",
		Short: "Validate HTTP bodies against Swagger 2.0 documents",
		Long: "oasgate checks JSON request and response bodies against the schemas declared\n" +
			"in a Swagger 2.0 document, as a library middleware, a one-shot check or a\n" +
			"validating reverse proxy.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.LogLevel, "log-level", "warn", "log level: off, debug, info, warn, error")

	root.AddCommand(
		newRoutesCommand(g),
		newCheckCommand(g),
		newProxyCommand(g),
		newConfigSchemaCommand(),
		newVersionCommand(),
	)
	return root
}
