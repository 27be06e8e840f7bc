package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
)

const modulePath = "github.com/mesh-intelligence/partsbin"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the partsbin version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "%s v%s\nmodule: %s\n", partsbin.Name, partsbin.Version, modulePath)
			return nil
		},
	}
}
