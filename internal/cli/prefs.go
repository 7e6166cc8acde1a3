package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrefsCmd(flags *globalFlags) *cobra.Command {
	var confirmDeletion, insertAtFront bool
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *app) error {
				prefs := a.prefs.LoadPreferences()
				changed := false
				if cmd.Flags().Changed("confirm-deletion") {
					prefs.ConfirmDeletion = confirmDeletion
					changed = true
				}
				if cmd.Flags().Changed("insert-at-front") {
					prefs.InsertAtFront = insertAtFront
					changed = true
				}
				if changed {
					if err := a.prefs.SavePreferences(prefs); err != nil {
						return fmt.Errorf("save preferences: %w", err)
					}
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "confirm-deletion: %t\n", prefs.ConfirmDeletion)
				fmt.Fprintf(out, "insert-at-front: %t\n", prefs.InsertAtFront)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmDeletion, "confirm-deletion", false, "Ask before deleting in the interactive list")
	cmd.Flags().BoolVar(&insertAtFront, "insert-at-front", true, "Add new tasks at the top instead of the bottom")
	return cmd
}
