package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// parseBuildParts reads --part values of the form <partID>:<quantity>.
func parseBuildParts(values []string) ([]types.BuildPart, error) {
	parts := make([]types.BuildPart, 0, len(values))
	for _, v := range values {
		id, qty, ok := strings.Cut(v, ":")
		n, err := strconv.Atoi(qty)
		if !ok || id == "" || err != nil {
			return nil, fmt.Errorf("invalid --part %q: want <part-id>:<quantity>", v)
		}
		parts = append(parts, types.BuildPart{PartID: id, Quantity: n})
	}
	return parts, nil
}

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"builds"},
		Short:   "Manage build notes",
	}
	cmd.AddCommand(
		newBuildAddCmd(a),
		newBuildListCmd(a),
		newBuildGetCmd(a),
		newBuildUpdateCmd(a),
		newBuildDeleteCmd(a),
	)
	return cmd
}

type buildFields struct {
	title, description, status, notes string
	cost                              float64
	parts, images                     []string
}

func (f *buildFields) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "build title")
	fl.StringVar(&f.description, "description", "", "description")
	fl.StringVar(&f.status, "status", "", "planning, in-progress, completed or archived")
	fl.StringVar(&f.notes, "notes", "", "notes")
	fl.Float64Var(&f.cost, "cost", 0, "total cost")
	fl.StringSliceVar(&f.parts, "part", nil, "part used, as <part-id>:<quantity> (repeatable)")
	fl.StringSliceVar(&f.images, "image", nil, "image URL (repeatable)")
}

func newBuildAddCmd(a *app) *cobra.Command {
	var f buildFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a build note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := parseBuildParts(f.parts)
			if err != nil {
				return err
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Builds.Add(types.BuildNote{
					Title:       f.title,
					Description: f.description,
					Status:      f.status,
					Notes:       f.notes,
					TotalCost:   f.cost,
					Parts:       parts,
					ImageURLs:   f.images,
				})
				if err != nil {
					return fmt.Errorf("add build: %w", err)
				}
				b, err := ws.Builds.Get(id)
				if err != nil {
					return err
				}
				return a.emit(b, func(w io.Writer) { fmt.Fprintf(w, "Added build %s\n", id) })
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newBuildListCmd(a *app) *cobra.Command {
	var (
		search   string
		statuses []string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List builds, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Builds.SetFilterOptions(types.BuildFilterPatch{SearchTerm: &search, Statuses: statuses})
				builds := ws.Builds.Visible()
				currency := ws.Settings().CurrencyFormat
				return a.emit(builds, func(w io.Writer) {
					if len(builds) == 0 {
						fmt.Fprintln(w, "No builds found.")
						return
					}
					rows := make([]table.Row, 0, len(builds))
					for _, b := range builds {
						rows = append(rows, table.Row{
							b.ID, truncate(b.Title, 32), b.Status, len(b.Parts),
							formatMoney(b.TotalCost, currency), formatDate(b.DateCreated),
						})
					}
					renderTable(w, table.Row{"ID", "Title", "Status", "Parts", "Cost", "Created"}, rows, 4, 5)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title or description")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only these statuses (repeatable)")
	return cmd
}

// buildView adds the computed parts cost to a build.
type buildView struct {
	types.BuildNote
	PartsCost float64 `json:"partsCost"`
}

func newBuildGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one build with the inventory cost of its parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				b, err := ws.Builds.Get(args[0])
				if err != nil {
					return fmt.Errorf("build %q: %w", args[0], err)
				}
				cost, err := ws.Builds.PartsCost(b.ID)
				if err != nil {
					return err
				}
				currency := ws.Settings().CurrencyFormat
				return a.emit(buildView{BuildNote: b, PartsCost: cost}, func(w io.Writer) {
					fmt.Fprintf(w, "ID:          %s\n", b.ID)
					fmt.Fprintf(w, "Title:       %s\n", b.Title)
					fmt.Fprintf(w, "Status:      %s\n", b.Status)
					fmt.Fprintf(w, "Total cost:  %s\n", formatMoney(b.TotalCost, currency))
					fmt.Fprintf(w, "Parts cost:  %s\n", formatMoney(cost, currency))
					if b.Description != "" {
						fmt.Fprintf(w, "Description: %s\n", b.Description)
					}
					for _, p := range b.Parts {
						name := p.PartID
						if part, err := ws.Parts.Get(p.PartID); err == nil {
							name = part.Name
						}
						fmt.Fprintf(w, "  - %dx %s\n", p.Quantity, name)
					}
				})
			})
		},
	}
}

func newBuildUpdateCmd(a *app) *cobra.Command {
	var f buildFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a build; unset flags are left alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := types.BuildPatch{
				Title:       changed(cmd, "title", f.title),
				Description: changed(cmd, "description", f.description),
				Status:      changed(cmd, "status", f.status),
				Notes:       changed(cmd, "notes", f.notes),
				TotalCost:   changed(cmd, "cost", f.cost),
				ImageURLs:   changedSlice(cmd, "image", f.images),
			}
			if cmd.Flags().Changed("part") {
				parts, err := parseBuildParts(f.parts)
				if err != nil {
					return err
				}
				patch.Parts = parts
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Builds.Update(args[0], patch); err != nil {
					return fmt.Errorf("update build %q: %w", args[0], err)
				}
				b, err := ws.Builds.Get(args[0])
				if err != nil {
					return err
				}
				return a.emit(b, func(w io.Writer) { fmt.Fprintf(w, "Updated build %s\n", b.ID) })
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newBuildDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a build note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Builds.Delete(args[0]); err != nil {
					return fmt.Errorf("delete build %q: %w", args[0], err)
				}
				return a.emitDeleted("build", args[0])
			})
		},
	}
}
