package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos"},
		Short:   "Manage todos",
	}

	var title, description, priority string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a todo (priority defaults to medium)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				id, err := ws.Todos.Add(types.TodoItem{Title: title, Description: description, Priority: priority})
				if err != nil {
					return fmt.Errorf("add todo: %w", err)
				}
				t, err := ws.Todos.Get(id)
				if err != nil {
					return err
				}
				return a.emit(t, func(w io.Writer) { fmt.Fprintf(w, "Added todo %s\n", id) })
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "title (required)")
	add.Flags().StringVar(&description, "description", "", "description")
	add.Flags().StringVar(&priority, "priority", "", "low, medium or high")
	_ = add.MarkFlagRequired("title")

	var (
		search     string
		priorities []string
		done, open bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if done && open {
				return fmt.Errorf("--done and --open are mutually exclusive")
			}
			patch := types.TodoFilterPatch{SearchTerm: &search, Priorities: priorities, ClearCompleted: true}
			if done || open {
				patch.ClearCompleted = false
				patch.Completed = &done
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				ws.Todos.SetFilterOptions(patch)
				todos := ws.Todos.Visible()
				return a.emit(todos, func(w io.Writer) {
					if len(todos) == 0 {
						fmt.Fprintln(w, "No todos found.")
						return
					}
					rows := make([]table.Row, 0, len(todos))
					for _, t := range todos {
						box := "[ ]"
						if t.Completed {
							box = "[x]"
						}
						rows = append(rows, table.Row{t.ID, box, t.Priority, truncate(t.Title, 48)})
					}
					renderTable(w, table.Row{"ID", "Done", "Priority", "Title"}, rows)
				})
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match title or description")
	list.Flags().StringSliceVar(&priorities, "priority", nil, "only these priorities (repeatable)")
	list.Flags().BoolVar(&done, "done", false, "only completed todos")
	list.Flags().BoolVar(&open, "open", false, "only open todos")

	toggle := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a todo between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				completed, err := ws.Todos.ToggleComplete(args[0])
				if err != nil {
					return fmt.Errorf("toggle todo %q: %w", args[0], err)
				}
				state := "open"
				if completed {
					state = "completed"
				}
				out := map[string]any{"id": args[0], "completed": completed}
				return a.emit(out, func(w io.Writer) { fmt.Fprintf(w, "Todo %s is %s\n", args[0], state) })
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				if err := ws.Todos.Delete(args[0]); err != nil {
					return fmt.Errorf("delete todo %q: %w", args[0], err)
				}
				return a.emitDeleted("todo", args[0])
			})
		},
	}

	clearDone := &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				n, err := ws.Todos.ClearCompleted()
				if err != nil {
					return fmt.Errorf("clear completed todos: %w", err)
				}
				return a.emit(map[string]int{"removed": n}, func(w io.Writer) { fmt.Fprintf(w, "Removed %d completed todo(s)\n", n) })
			})
		},
	}

	cmd.AddCommand(add, list, toggle, del, clearDone)
	return cmd
}
