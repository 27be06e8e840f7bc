package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show inventory and dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				s := ws.Summary()
				currency := ws.Settings().CurrencyFormat
				return a.emit(s, func(w io.Writer) {
					renderTable(w, table.Row{"Metric", "Value"}, []table.Row{
						{"Parts", s.TotalParts},
						{"Units in stock", s.TotalUnits},
						{"Units in use", s.UnitsInUse},
						{"Low-stock parts", s.LowStockParts},
						{"Inventory value", formatMoney(s.InventoryValue, currency)},
						{"Categories", s.TotalCategories},
						{"Locations", s.TotalLocations},
						{"Builds", fmt.Sprintf("%d (%d active)", s.TotalBuilds, s.ActiveBuilds)},
						{"Gallery items", s.TotalGalleryItems},
						{"Links", s.TotalLinks},
						{"Todos", fmt.Sprintf("%d open, %d done", s.OpenTodos, s.CompletedTodos)},
					}, 2)
				})
			})
		},
	}
}
