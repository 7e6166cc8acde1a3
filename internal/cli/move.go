package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"taskpad/internal/reorder"
	"taskpad/internal/task"
)

func newMoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <before|after> <target-id>",
		Short: "Move a task next to another one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var after bool
			switch args[1] {
			case "before":
			case "after":
				after = true
			default:
				return fmt.Errorf("expected before or after, got %q", args[1])
			}
			target, err := parseID(args[2])
			if err != nil {
				return err
			}
			if id == target {
				return errors.New("cannot move a task relative to itself")
			}
			return withApp(flags, func(a *app) error {
				if err := moveTask(a.store, id, target, after); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

// moveTask replays the move as a one-step drag over unit-height rows.
func moveTask(store *task.Store, id, target int64, after bool) error {
	ids := task.IDs(store.All())
	i := slices.Index(ids, target)
	if i < 0 {
		return fmt.Errorf("%w: %d", errUnknownTask, target)
	}
	if !slices.Contains(ids, id) {
		return fmt.Errorf("%w: %d", errUnknownTask, id)
	}

	engine := reorder.New(store)
	if err := engine.Start(id, ids); err != nil {
		return err
	}
	row := reorder.Row{ID: target, Top: float64(i), Height: 1}
	y := row.Top
	if after {
		y += row.Height / 2
	}
	engine.Move(reorder.Pointer{Row: &row, Y: y})
	return engine.End()
}
