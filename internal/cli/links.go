package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "link",
		Aliases: []string{"links"},
		Short:   "Manage saved links",
	}

	var title, url, description, category string
	var tags []string
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Links.Add(types.Link{
					Title:       title,
					URL:         url,
					Description: description,
					Category:    category,
					Tags:        tags,
				})
				if err != nil {
					return fmt.Errorf("add link: %w", err)
				}
				l, err := ws.Links.Get(id)
				if err != nil {
					return err
				}
				return a.emit(l, func(w io.Writer) { fmt.Fprintf(w, "Added link %s\n", id) })
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "title (required)")
	add.Flags().StringVar(&url, "url", "", "absolute URL (required)")
	add.Flags().StringVar(&description, "description", "", "description")
	add.Flags().StringVar(&category, "category", "", "link category, e.g. vendor or tutorial")
	add.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("url")

	var search string
	var categories []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Links.SetFilterOptions(types.LinkFilterPatch{SearchTerm: &search, Categories: categories})
				links := ws.Links.Visible()
				return a.emit(links, func(w io.Writer) {
					if len(links) == 0 {
						fmt.Fprintln(w, "No links found.")
						return
					}
					rows := make([]table.Row, 0, len(links))
					for _, l := range links {
						rows = append(rows, table.Row{l.ID, truncate(l.Title, 32), l.Category, truncate(l.URL, 48)})
					}
					renderTable(w, table.Row{"ID", "Title", "Category", "URL"}, rows)
				})
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match title, URL, description or tags")
	list.Flags().StringSliceVar(&categories, "category", nil, "only these categories (repeatable)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Links.Delete(args[0]); err != nil {
					return fmt.Errorf("delete link %q: %w", args[0], err)
				}
				return a.emitDeleted("link", args[0])
			})
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
