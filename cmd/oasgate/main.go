// Command oasgate validates HTTP traffic against Swagger 2.0 documents.
package main

import (
	"os"

	"github.com/erraggy/oasgate/cmd/oasgate/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
