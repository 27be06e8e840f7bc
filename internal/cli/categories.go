package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage part categories",
	}
	cmd.AddCommand(
		newCategoryAddCmd(a),
		newCategoryListCmd(a),
		newCategoryUpdateCmd(a),
		newCategoryDeleteCmd(a),
	)
	return cmd
}

func newCategoryAddCmd(a *app) *cobra.Command {
	var name, description, color string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Categories.Add(types.Category{Name: name, Description: description, Color: color})
				if err != nil {
					return fmt.Errorf("add category: %w", err)
				}
				c, err := ws.Categories.Get(id)
				if err != nil {
					return err
				}
				return a.emit(c, func(w io.Writer) { fmt.Fprintf(w, "Added category %s (%s)\n", c.Name, id) })
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "category name (required)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&color, "color", "", "display color, e.g. #ff6600")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// categoryView is the list representation of a category.
type categoryView struct {
	types.Category
	PartCount int `json:"partCount"`
}

func newCategoryListCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories with their part counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Categories.SetSearchTerm(search)
				cats := ws.Categories.Visible()
				views := make([]categoryView, 0, len(cats))
				for _, c := range cats {
					views = append(views, categoryView{Category: c, PartCount: ws.Categories.PartCount(c.Name)})
				}
				return a.emit(views, func(w io.Writer) {
					if len(views) == 0 {
						fmt.Fprintln(w, "No categories found.")
						return
					}
					rows := make([]table.Row, 0, len(views))
					for _, v := range views {
						subs := make([]string, 0, len(v.Subcategories))
						for _, s := range v.Subcategories {
							subs = append(subs, s.Name)
						}
						rows = append(rows, table.Row{v.ID, v.Name, v.PartCount, truncate(joinTags(subs), 40)})
					}
					renderTable(w, table.Row{"ID", "Name", "Parts", "Subcategories"}, rows, 3)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or description")
	return cmd
}

func newCategoryUpdateCmd(a *app) *cobra.Command {
	var name, description, color string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or describe a category; parts keep their old category name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				patch := types.CategoryPatch{
					Name:        changed(cmd, "name", name),
					Description: changed(cmd, "description", description),
					Color:       changed(cmd, "color", color),
				}
				if err := ws.Categories.Update(args[0], patch); err != nil {
					return fmt.Errorf("update category %q: %w", args[0], err)
				}
				c, err := ws.Categories.Get(args[0])
				if err != nil {
					return err
				}
				return a.emit(c, func(w io.Writer) { fmt.Fprintf(w, "Updated category %s\n", c.ID) })
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	return cmd
}

func newCategoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category that no part uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Categories.Delete(args[0]); err != nil {
					return fmt.Errorf("delete category %q: %w", args[0], err)
				}
				return a.emitDeleted("category", args[0])
			})
		},
	}
}

func newSubcategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subcategory",
		Short: "Manage subcategories of a category",
	}

	var name, description string
	add := &cobra.Command{
		Use:   "add <category-id>",
		Short: "Append a subcategory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Categories.AddSubcategory(args[0], types.Subcategory{Name: name, Description: description})
				if err != nil {
					return fmt.Errorf("add subcategory: %w", err)
				}
				sub := types.Subcategory{ID: id, Name: name, Description: description}
				return a.emit(sub, func(w io.Writer) { fmt.Fprintf(w, "Added subcategory %s (%s)\n", name, id) })
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "subcategory name (required)")
	add.Flags().StringVar(&description, "description", "", "description")
	_ = add.MarkFlagRequired("name")

	del := &cobra.Command{
		Use:   "delete <category-id> <subcategory-id>",
		Short: "Delete a subcategory that no part uses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Categories.DeleteSubcategory(args[0], args[1]); err != nil {
					return fmt.Errorf("delete subcategory %q: %w", args[1], err)
				}
				return a.emitDeleted("subcategory", args[1])
			})
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}

func newLocationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"locations"},
		Short:   "Manage storage locations",
	}

	var name, description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a storage location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Locations.Add(types.StorageLocation{Name: name, Description: description})
				if err != nil {
					return fmt.Errorf("add location: %w", err)
				}
				l, err := ws.Locations.Get(id)
				if err != nil {
					return err
				}
				return a.emit(l, func(w io.Writer) { fmt.Fprintf(w, "Added location %s (%s)\n", l.Name, id) })
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "location name (required)")
	add.Flags().StringVar(&description, "description", "", "description")
	_ = add.MarkFlagRequired("name")

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List storage locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Locations.SetSearchTerm(search)
				locs := ws.Locations.Visible()
				return a.emit(locs, func(w io.Writer) {
					if len(locs) == 0 {
						fmt.Fprintln(w, "No locations found.")
						return
					}
					rows := make([]table.Row, 0, len(locs))
					for _, l := range locs {
						rows = append(rows, table.Row{l.ID, l.Name, truncate(l.Description, 48)})
					}
					renderTable(w, table.Row{"ID", "Name", "Description"}, rows)
				})
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match name or description")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location that no part uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Locations.Delete(args[0]); err != nil {
					return fmt.Errorf("delete location %q: %w", args[0], err)
				}
				return a.emitDeleted("location", args[0])
			})
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
