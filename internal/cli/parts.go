package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// partFields are the flags shared by part add and part update.
type partFields struct {
	name, category, subcategory, location   string
	description, manufacturer, model, notes string
	quantity, inUse                         int
	price                                   float64
	images                                  []string
}

func (f *partFields) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "part name")
	fl.StringVar(&f.category, "category", "", "category name (default: settings default category)")
	fl.StringVar(&f.subcategory, "subcategory", "", "subcategory name")
	fl.IntVar(&f.quantity, "quantity", 0, "units in stock")
	fl.IntVar(&f.inUse, "in-use", 0, "units allocated to builds")
	fl.Float64Var(&f.price, "price", 0, "unit price")
	fl.StringVar(&f.location, "location", "", "storage location name")
	fl.StringVar(&f.description, "description", "", "description")
	fl.StringSliceVar(&f.images, "image", nil, "image URL (repeatable)")
	fl.StringVar(&f.manufacturer, "manufacturer", "", "manufacturer")
	fl.StringVar(&f.model, "model", "", "model number")
	fl.StringVar(&f.notes, "notes", "", "notes")
}

func (f *partFields) patch(cmd *cobra.Command) types.PartPatch {
	return types.PartPatch{
		Name:         changed(cmd, "name", f.name),
		Category:     changed(cmd, "category", f.category),
		Subcategory:  changed(cmd, "subcategory", f.subcategory),
		Quantity:     changed(cmd, "quantity", f.quantity),
		InUse:        changed(cmd, "in-use", f.inUse),
		Price:        changed(cmd, "price", f.price),
		Location:     changed(cmd, "location", f.location),
		Description:  changed(cmd, "description", f.description),
		ImageURLs:    changedSlice(cmd, "image", f.images),
		Manufacturer: changed(cmd, "manufacturer", f.manufacturer),
		ModelNumber:  changed(cmd, "model", f.model),
		Notes:        changed(cmd, "notes", f.notes),
	}
}

func newPartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "part",
		Aliases: []string{"parts"},
		Short:   "Manage parts inventory",
	}
	cmd.AddCommand(
		newPartAddCmd(a),
		newPartListCmd(a),
		newPartGetCmd(a),
		newPartUpdateCmd(a),
		newPartDeleteCmd(a),
	)
	return cmd
}

func newPartAddCmd(a *app) *cobra.Command {
	var f partFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a part",
		Example: `  partsbin part add --name "2207 Motor" --category Motors --quantity 4 --price 19.99
  partsbin part add --name "Spare props" --location "Bin A" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				category := f.category
				if strings.TrimSpace(category) == "" {
					category = ws.Settings().DefaultCategory
				}
				id, err := ws.Parts.Add(types.Part{
					Name:         f.name,
					Category:     category,
					Subcategory:  f.subcategory,
					Quantity:     f.quantity,
					InUse:        f.inUse,
					Price:        f.price,
					Location:     f.location,
					Description:  f.description,
					ImageURLs:    f.images,
					Manufacturer: f.manufacturer,
					ModelNumber:  f.model,
					Notes:        f.notes,
				})
				if err != nil {
					return fmt.Errorf("add part: %w", err)
				}
				p, err := ws.Parts.Get(id)
				if err != nil {
					return err
				}
				return a.emit(p, func(w io.Writer) { fmt.Fprintf(w, "Added part %s\n", id) })
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPartListCmd(a *app) *cobra.Command {
	var (
		search     string
		categories []string
		locations  []string
		lowStock   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parts matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Parts.SetFilterOptions(types.PartFilterPatch{
					SearchTerm:   &search,
					Categories:   categories,
					Locations:    locations,
					LowStockOnly: &lowStock,
				})
				parts := ws.Parts.Visible()
				settings := ws.Settings()
				return a.emit(parts, func(w io.Writer) {
					if len(parts) == 0 {
						fmt.Fprintln(w, "No parts found.")
						return
					}
					rows := make([]table.Row, 0, len(parts))
					for _, p := range parts {
						flag := ""
						if p.IsLowStock(settings.LowStockThreshold) {
							flag = "low"
						}
						rows = append(rows, table.Row{
							p.ID, truncate(p.Name, 32), p.Category, p.Location,
							p.Quantity, p.InUse, formatMoney(p.Price, settings.CurrencyFormat), flag,
						})
					}
					renderTable(w, table.Row{"ID", "Name", "Category", "Location", "Qty", "In use", "Price", "Stock"}, rows, 5, 6, 7)
				})
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&search, "search", "s", "", "match name, description, manufacturer, model or notes")
	fl.StringSliceVar(&categories, "category", nil, "only these categories (repeatable)")
	fl.StringSliceVar(&locations, "location", nil, "only these locations (repeatable)")
	fl.BoolVar(&lowStock, "low-stock", false, "only parts at or below the low-stock threshold")
	return cmd
}

func newPartGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				p, err := ws.Parts.Get(args[0])
				if err != nil {
					return fmt.Errorf("part %q: %w", args[0], err)
				}
				currency := ws.Settings().CurrencyFormat
				return a.emit(p, func(w io.Writer) {
					fmt.Fprintf(w, "ID:           %s\n", p.ID)
					fmt.Fprintf(w, "Name:         %s\n", p.Name)
					fmt.Fprintf(w, "Category:     %s\n", p.Category)
					if p.Subcategory != "" {
						fmt.Fprintf(w, "Subcategory:  %s\n", p.Subcategory)
					}
					fmt.Fprintf(w, "Location:     %s\n", p.Location)
					fmt.Fprintf(w, "Quantity:     %d (%d in use, %d available)\n", p.Quantity, p.InUse, p.Available())
					fmt.Fprintf(w, "Price:        %s (total %s)\n", formatMoney(p.Price, currency), formatMoney(p.Value(), currency))
					if p.Manufacturer != "" || p.ModelNumber != "" {
						fmt.Fprintf(w, "Model:        %s %s\n", p.Manufacturer, p.ModelNumber)
					}
					if p.Description != "" {
						fmt.Fprintf(w, "Description:  %s\n", p.Description)
					}
					if p.Notes != "" {
						fmt.Fprintf(w, "Notes:        %s\n", p.Notes)
					}
					fmt.Fprintf(w, "Added:        %s\n", formatDate(p.DateAdded))
				})
			})
		},
	}
}

func newPartUpdateCmd(a *app) *cobra.Command {
	var f partFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a part; unset flags are left alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Parts.Update(args[0], f.patch(cmd)); err != nil {
					return fmt.Errorf("update part %q: %w", args[0], err)
				}
				p, err := ws.Parts.Get(args[0])
				if err != nil {
					return err
				}
				return a.emit(p, func(w io.Writer) { fmt.Fprintf(w, "Updated part %s\n", p.ID) })
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newPartDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Parts.Delete(args[0]); err != nil {
					return fmt.Errorf("delete part %q: %w", args[0], err)
				}
				return a.emitDeleted("part", args[0])
			})
		},
	}
}

// emitDeleted reports a successful delete.
func (a *app) emitDeleted(kind, id string) error {
	return a.emit(map[string]string{"deleted": id, "kind": kind}, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted %s %s\n", kind, id)
	})
}
