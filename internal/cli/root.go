// Package cli wires the taskpad commands. With no subcommand the terminal
// UI is started; the subcommands give scripted access to the same store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskpad/internal/ui"
)

type globalFlags struct {
	configPath string
	debug      bool
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "taskpad",
		Short: "A small local task list",
		Long: `taskpad keeps an ordered task list on disk.

Run it without arguments for the interactive list (mouse drag or J/K to
reorder), or use the subcommands from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *app) error {
				return ui.Run(a.store, a.prefs, a.cfg, a.logger)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write debug logs to the configured log file")

	rootCmd.AddCommand(newAddCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newToggleCmd(flags))
	rootCmd.AddCommand(newRemoveCmd(flags))
	rootCmd.AddCommand(newMoveCmd(flags))
	rootCmd.AddCommand(newPrefsCmd(flags))
	rootCmd.AddCommand(newExportCmd(flags))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// Execute runs the root command.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
