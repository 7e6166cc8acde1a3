package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"taskpad/internal/task"
)

func newAddCmd(flags *globalFlags) *cobra.Command {
	var front, end bool
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if front && end {
				return errors.New("--front and --end are mutually exclusive")
			}
			return withApp(flags, func(a *app) error {
				insertAtFront := a.prefs.LoadPreferences().InsertAtFront
				if front {
					insertAtFront = true
				}
				if end {
					insertAtFront = false
				}
				created, err := a.store.Add(strings.Join(args, " "), insertAtFront)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), created.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&front, "front", false, "Insert at the top of the list")
	cmd.Flags().BoolVar(&end, "end", false, "Insert at the bottom of the list")
	return cmd
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var filterName string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *app) error {
				filter := a.cfg.Filter()
				if filterName != "" {
					f, err := task.ParseFilter(filterName)
					if err != nil {
						return err
					}
					filter = f
				}
				printTasks(cmd.OutOrStdout(), task.Project(a.store.All(), filter))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filterName, "filter", "f", "", "all, active or completed")
	return cmd
}

// printTasks writes "{position:>4}  {id}  [x] {text}" lines.
func printTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	for i, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%4d  %d  [%s] %s\n", i+1, t.ID, mark, t.Text)
	}
}

func newToggleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip a task between active and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(flags, func(a *app) error {
				if err := a.store.Toggle(id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(flags, func(a *app) error {
				if err := a.store.Remove(id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}
