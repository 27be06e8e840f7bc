package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func newGalleryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage gallery items",
	}

	var title, description string
	var tags, images []string

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a gallery item; new tags join the tag list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Gallery.Add(types.GalleryItem{
					Title:       title,
					Description: description,
					Tags:        tags,
					ImageURLs:   images,
				})
				if err != nil {
					return fmt.Errorf("add gallery item: %w", err)
				}
				g, err := ws.Gallery.Get(id)
				if err != nil {
					return err
				}
				return a.emit(g, func(w io.Writer) { fmt.Fprintf(w, "Added gallery item %s\n", id) })
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "title (required)")
	add.Flags().StringVar(&description, "description", "", "description")
	add.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	add.Flags().StringSliceVar(&images, "image", nil, "image URL (repeatable)")
	_ = add.MarkFlagRequired("title")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a gallery item; --tag replaces all of its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := types.GalleryPatch{
				Title:       changed(cmd, "title", title),
				Description: changed(cmd, "description", description),
				Tags:        changedSlice(cmd, "tag", tags),
				ImageURLs:   changedSlice(cmd, "image", images),
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Gallery.Update(args[0], patch); err != nil {
					return fmt.Errorf("update gallery item %q: %w", args[0], err)
				}
				g, err := ws.Gallery.Get(args[0])
				if err != nil {
					return err
				}
				return a.emit(g, func(w io.Writer) { fmt.Fprintf(w, "Updated gallery item %s\n", g.ID) })
			})
		},
	}
	update.Flags().StringVar(&title, "title", "", "title")
	update.Flags().StringVar(&description, "description", "", "description")
	update.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	update.Flags().StringSliceVar(&images, "image", nil, "image URL (repeatable)")

	var search string
	var filterTags []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List gallery items, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Gallery.SetFilterOptions(types.GalleryFilterPatch{SearchTerm: &search, Tags: filterTags})
				items := ws.Gallery.Visible()
				return a.emit(items, func(w io.Writer) {
					if len(items) == 0 {
						fmt.Fprintln(w, "No gallery items found.")
						return
					}
					rows := make([]table.Row, 0, len(items))
					for _, g := range items {
						rows = append(rows, table.Row{g.ID, truncate(g.Title, 32), truncate(joinTags(g.Tags), 40), formatDate(g.DateAdded)})
					}
					renderTable(w, table.Row{"ID", "Title", "Tags", "Added"}, rows)
				})
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match title, description or tags")
	list.Flags().StringSliceVar(&filterTags, "tag", nil, "only items carrying any of these tags (repeatable)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a gallery item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Gallery.Delete(args[0]); err != nil {
					return fmt.Errorf("delete gallery item %q: %w", args[0], err)
				}
				return a.emitDeleted("gallery item", args[0])
			})
		},
	}

	cmd.AddCommand(add, update, list, del)
	return cmd
}

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Aliases: []string{"tags"},
		Short:   "Manage gallery tags",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List known tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				tags := ws.Gallery.Tags()
				return a.emit(tags, func(w io.Writer) {
					for _, t := range tags {
						fmt.Fprintln(w, t)
					}
				})
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <tag>",
		Short: "Register a custom tag (stored lowercase)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				tag, err := ws.Gallery.AddCustomTag(args[0])
				if err != nil {
					return fmt.Errorf("add tag: %w", err)
				}
				return a.emit(map[string]string{"tag": tag}, func(w io.Writer) { fmt.Fprintf(w, "Added tag %s\n", tag) })
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <tag>",
		Short: "Remove a tag no gallery item carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Gallery.RemoveCustomTag(args[0]); err != nil {
					return fmt.Errorf("remove tag %q: %w", args[0], err)
				}
				return a.emitDeleted("tag", args[0])
			})
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
