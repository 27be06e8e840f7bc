package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize partsbin storage",
		Long:  "Create the configuration and data directories, then open the store.\nA store with no data is seeded with sample records unless seed is false in config.yaml.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				s := ws.Summary()
				out := map[string]any{
					"configDir": a.configDir,
					"dataDir":   dataDir,
					"backend":   a.cfg.Backend,
					"parts":     s.TotalParts,
				}
				return a.emit(out, func(w io.Writer) {
					fmt.Fprintln(w, "partsbin initialized")
					fmt.Fprintln(w, "  config: ", a.configDir)
					fmt.Fprintln(w, "  data:   ", dataDir)
					fmt.Fprintln(w, "  backend:", a.cfg.Backend)
				})
			})
		},
	}
}
